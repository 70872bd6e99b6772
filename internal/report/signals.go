package report

import (
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/signals"
)

// Signals holds every extractor output for one snapshot. Detailed-only
// signals are nil unless requested.
type Signals struct {
	Cadence    *signals.CadenceAnalysis
	Recurring  *signals.RecurringAnalysis
	Travel     *signals.TravelAnalysis
	Rules      *signals.RuleSet
	Categories signals.CategoryAnalysis
	Merchants  signals.MerchantAnalysis
	Risk       signals.RiskAssessment
	Balance    signals.BalanceSummary
}

// ExtractSignals runs the extractors over s.
func ExtractSignals(s *model.Snapshot, detailed bool) *Signals {
	balance := signals.AnalyzeBalance(s)
	out := &Signals{
		Balance:    balance,
		Categories: signals.AnalyzeCategories(s),
		Merchants:  signals.AnalyzeMerchants(s),
		Risk:       signals.ScoreRisk(s, balance),
	}

	if detailed {
		cadence := signals.AnalyzeCadence(s)
		recurring := signals.DetectRecurring(s)
		travel := signals.ClusterTravel(s)
		rules := signals.SynthesizeRules(out.Categories, out.Risk)
		out.Cadence = &cadence
		out.Recurring = &recurring
		out.Travel = &travel
		out.Rules = &rules
	}

	return out
}

// Metrics returns the signal payload attached to a section of the given kind.
func (s *Signals) Metrics(kind SectionKind) any {
	switch kind {
	case SectionAccountSummary:
		return s.Balance
	case SectionBehavior:
		return s.Categories
	case SectionMerchants:
		return s.Merchants
	case SectionRisk:
		return s.Risk
	case SectionCadence:
		if s.Cadence != nil {
			return s.Cadence
		}
	case SectionRecurring:
		if s.Recurring != nil {
			return s.Recurring
		}
	case SectionTravel:
		if s.Travel != nil {
			return s.Travel
		}
	case SectionBackendRules:
		if s.Rules != nil {
			return s.Rules
		}
	}
	return nil
}

// Summary builds the machine-readable headline block.
func (s *Signals) Summary() Summary {
	return Summary{
		TotalBalance:      s.Balance.TotalBalance,
		Income:            s.Balance.Income,
		Expenses:          s.Balance.Expenses,
		NetChange:         s.Balance.NetChange,
		AverageDailySpend: s.Balance.AverageDailySpend,
		TopCategories:     s.Categories.Top(5),
		TopMerchants:      s.Merchants.Top(5),
		DaysOfRunway:      s.Risk.DaysOfRunway,
		RiskCount:         s.Risk.RiskCount,
		HasCriticalRisks:  s.Risk.HasCriticalRisks,
	}
}
