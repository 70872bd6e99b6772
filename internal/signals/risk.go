package signals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/classification"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// Runway and gambling thresholds.
const (
	// RunwaySentinel is reported when there is no detectable burn rate.
	RunwaySentinel = 999.0

	LiquidityRiskDays     = 30.0
	LiquidityCriticalDays = 14.0

	GamblingRiskShare     = 0.10
	GamblingCriticalShare = 0.25
)

// RiskType identifies a risk rule.
type RiskType string

const (
	RiskLiquidity RiskType = "liquidity"
	RiskGambling  RiskType = "gambling"
)

// Severity grades a risk.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Risk is one triggered risk rule.
type Risk struct {
	Type        RiskType `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// RiskAssessment aggregates every applicable risk.
type RiskAssessment struct {
	Risks                    []Risk  `json:"risks"`
	DaysOfRunway             float64 `json:"daysOfRunway"`
	GamblingSpend            float64 `json:"gamblingSpend"`
	GamblingShare            float64 `json:"gamblingShare"`
	GamblingTransactionCount int     `json:"gamblingTransactionCount"`
	RiskCount                int     `json:"riskCount"`
	HasCriticalRisks         bool    `json:"hasCriticalRisks"`
}

// Has reports whether a risk of type t was triggered.
func (a RiskAssessment) Has(t RiskType) bool {
	for _, r := range a.Risks {
		if r.Type == t {
			return true
		}
	}
	return false
}

// IsGambling reports whether a transaction matches the gambling keyword table.
func IsGambling(txn model.Transaction) bool {
	return classification.Gambling.Matches(txn.Description, txn.MerchantName, txn.Category)
}

// DaysOfRunway returns balance / daily spend, or RunwaySentinel when spend is not positive.
func DaysOfRunway(b BalanceSummary) float64 {
	if b.AverageDailySpend <= 0 {
		return RunwaySentinel
	}
	return round2(b.TotalBalance / b.AverageDailySpend)
}

// ScoreRisk evaluates the liquidity and gambling rules independently.
func ScoreRisk(s *model.Snapshot, b BalanceSummary) RiskAssessment {
	a := RiskAssessment{
		Risks:        []Risk{},
		DaysOfRunway: DaysOfRunway(b),
	}

	if a.DaysOfRunway < LiquidityRiskDays {
		severity := SeverityMedium
		if a.DaysOfRunway < LiquidityCriticalDays {
			severity = SeverityHigh
		}
		a.Risks = append(a.Risks, Risk{
			Type:     RiskLiquidity,
			Severity: severity,
			Description: fmt.Sprintf("Current balances cover about %.0f days of spending at %.2f per day.",
				a.DaysOfRunway, b.AverageDailySpend),
		})
	}

	gambling := decimal.Zero
	for _, txn := range s.Transactions {
		if IsGambling(txn) {
			gambling = gambling.Add(absDecimal(txn.Amount))
			a.GamblingTransactionCount++
		}
	}
	a.GamblingSpend = gambling.InexactFloat64()

	share := 0.0
	if b.Expenses > 0 {
		share = gambling.Div(decimal.NewFromFloat(b.Expenses)).InexactFloat64()
	}
	a.GamblingShare = decimal.NewFromFloat(share).Round(4).InexactFloat64()

	if share > GamblingRiskShare {
		severity := SeverityMedium
		if share > GamblingCriticalShare {
			severity = SeverityHigh
		}
		a.Risks = append(a.Risks, Risk{
			Type:     RiskGambling,
			Severity: severity,
			Description: fmt.Sprintf("Gambling accounts for %.1f%% of expenses (%.2f across %d transactions).",
				share*100, a.GamblingSpend, a.GamblingTransactionCount),
		})
	}

	a.RiskCount = len(a.Risks)
	for _, r := range a.Risks {
		if r.Severity == SeverityHigh {
			a.HasCriticalRisks = true
		}
	}

	return a
}
