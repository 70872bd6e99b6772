package report

import (
	"fmt"
	"strings"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/signals"
)

// FallbackContent builds deterministic prose for a section from its signals.
// It is used whenever the oracle fails and never returns an empty string.
func FallbackContent(kind SectionKind, s *Signals) string {
	if s == nil {
		return fmt.Sprintf("%s is unavailable for this period.", kind.Title())
	}

	switch kind {
	case SectionAccountSummary:
		return fallbackBalance(s.Balance)
	case SectionBehavior:
		return fallbackCategories(s.Categories)
	case SectionMerchants:
		return fallbackMerchants(s.Merchants)
	case SectionRisk:
		return fallbackRisk(s.Risk)
	case SectionCadence:
		if s.Cadence != nil {
			return fallbackCadence(*s.Cadence)
		}
	case SectionRecurring:
		if s.Recurring != nil {
			return fallbackRecurring(*s.Recurring)
		}
	case SectionTravel:
		if s.Travel != nil {
			return fallbackTravel(*s.Travel)
		}
	case SectionBackendRules:
		if s.Rules != nil {
			return fallbackRules(*s.Rules)
		}
	}
	return fmt.Sprintf("%s is unavailable for this period.", kind.Title())
}

func fallbackBalance(b signals.BalanceSummary) string {
	direction := "grew"
	if b.NetChange < 0 {
		direction = "shrank"
	}
	return fmt.Sprintf("Your %d account(s) hold a combined balance of %s. Over %d days you received %s and spent %s, so your cash position %s by %s. Average daily spending was %s.",
		b.AccountCount, formatAmount(b.TotalBalance), b.DaysInPeriod,
		formatAmount(b.Income), formatAmount(b.Expenses),
		direction, formatAmount(abs(b.NetChange)), formatAmount(b.AverageDailySpend))
}

func fallbackCategories(c signals.CategoryAnalysis) string {
	if len(c.TopCategories) == 0 {
		return "No spending was recorded in this period."
	}
	top := c.TopCategories[0]
	return fmt.Sprintf("Your most frequent spending category was %s with %d transactions totaling %s (%s of the top categories). Spending spanned %d categories; %s.",
		top.Name, top.Count, formatAmount(top.Total), formatPercent(top.PercentOfTotal),
		c.TotalCategories, listCategories(c.Top(5)))
}

func listCategories(cats []signals.CategoryStat) string {
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s (%d, %s)", c.Name, c.Count, c.Elasticity))
	}
	return "the leading ones were " + strings.Join(parts, ", ")
}

func fallbackMerchants(m signals.MerchantAnalysis) string {
	if len(m.TopMerchants) == 0 {
		return "No merchant activity was recorded in this period."
	}
	top := m.TopMerchants[0]
	names := make([]string, 0, 5)
	for _, t := range m.Top(5) {
		names = append(names, t.Name)
	}
	return fmt.Sprintf("You paid %s most often, %d times for %s in total. Your most frequent merchants were %s, out of %d merchants overall.",
		top.Name, top.Count, formatAmount(top.Total), strings.Join(names, ", "), m.TotalMerchants)
}

func fallbackRisk(r signals.RiskAssessment) string {
	var sb strings.Builder
	if r.DaysOfRunway >= signals.RunwaySentinel {
		sb.WriteString("No regular spending was detected, so your balances are not being drawn down.")
	} else {
		fmt.Fprintf(&sb, "At your current spending rate your balances would last about %s days.", formatDays(r.DaysOfRunway))
	}

	if r.RiskCount == 0 {
		sb.WriteString(" No risk indicators were triggered.")
		return sb.String()
	}

	fmt.Fprintf(&sb, " %d risk indicator(s) were triggered:", r.RiskCount)
	for _, risk := range r.Risks {
		fmt.Fprintf(&sb, " %s (%s severity) %s", risk.Type, risk.Severity, risk.Description)
	}
	return sb.String()
}

func fallbackCadence(c signals.CadenceAnalysis) string {
	if c.TransactionsTimed == 0 {
		return "There were no dated expenses to analyze for timing."
	}
	return fmt.Sprintf("Of %d dated expenses, %s happened on weekdays and %s on weekends. By time of day, %s were in the morning, %s in the afternoon and %s in the evening or overnight.",
		c.TransactionsTimed, formatPercent(c.WeekdayPercent), formatPercent(c.WeekendPercent),
		formatPercent(c.MorningPercent), formatPercent(c.AfternoonPercent), formatPercent(c.EveningPercent))
}

func fallbackRecurring(r signals.RecurringAnalysis) string {
	if r.Status == signals.StatusInsufficientData {
		return "There is not enough transaction history yet to identify recurring charges."
	}
	if len(r.Charges) == 0 {
		return "No recurring charges were detected in this period."
	}
	top := r.Charges[0]
	return fmt.Sprintf("We found %d recurring charge(s) costing about %s per cycle in total. The largest is %s at %s on average (%s, %d charges).",
		len(r.Charges), formatAmount(r.EstimatedMonthlyCost), top.Merchant, formatAmount(top.AverageAmount), top.Frequency, top.Count)
}

func fallbackTravel(t signals.TravelAnalysis) string {
	if t.Status == signals.StatusInsufficientData {
		return "There is not enough transaction history yet to analyze travel."
	}
	if len(t.Periods) == 0 {
		return "No travel activity was detected in this period."
	}
	total := 0.0
	for _, p := range t.Periods {
		total += p.TotalSpend
	}
	first := t.Periods[0]
	return fmt.Sprintf("We detected %d travel period(s) with %s in travel spending. The first ran from %s to %s (%d days).",
		len(t.Periods), formatAmount(total), formatDate(first.StartDate), formatDate(first.EndDate), first.DurationDays)
}

func fallbackRules(r signals.RuleSet) string {
	if len(r.PriorityStack) == 0 {
		return "No automations are suggested for this period."
	}
	return "Suggested automations, in priority order: " + strings.Join(r.PriorityStack, " ")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
