package signals

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/classification"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// MaxSubscriptionDeviation is the largest relative spread between a
// merchant's charges that still counts as a fixed amount.
const MaxSubscriptionDeviation = 0.10

// Frequency and type labels for recurring charges.
const (
	FrequencyMonthly  = "monthly"
	FrequencyPeriodic = "periodic"

	ChargeSubscription = "subscription"
	ChargeRecurring    = "recurring"
)

// RecurringCharge is a merchant with repeated, amount-stable debits.
type RecurringCharge struct {
	LastDate      time.Time `json:"lastDate"`
	Merchant      string    `json:"merchant"`
	Frequency     string    `json:"frequency"`
	Type          string    `json:"type"`
	AverageAmount float64   `json:"averageAmount"`
	Deviation     float64   `json:"deviation"`
	Count         int       `json:"count"`
}

// RecurringAnalysis lists detected recurring charges, largest first.
type RecurringAnalysis struct {
	Status               Status            `json:"status"`
	Charges              []RecurringCharge `json:"charges"`
	TechCharges          []RecurringCharge `json:"techCharges"`
	EstimatedMonthlyCost float64           `json:"estimatedMonthlyCost"`
}

type merchantHistory struct {
	name    string
	amounts []decimal.Decimal
	last    time.Time
}

// DetectRecurring finds merchants charged at least twice whose amounts are
// near-identical or whose name is a known subscription brand.
func DetectRecurring(s *model.Snapshot) RecurringAnalysis {
	expenses := s.Expenses()
	if len(expenses) < 2 {
		return RecurringAnalysis{
			Status:      StatusInsufficientData,
			Charges:     []RecurringCharge{},
			TechCharges: []RecurringCharge{},
		}
	}

	index := make(map[string]*merchantHistory)
	var ordered []*merchantHistory
	for _, txn := range expenses {
		name := MerchantName(txn)
		h, ok := index[name]
		if !ok {
			h = &merchantHistory{name: name}
			index[name] = h
			ordered = append(ordered, h)
		}
		h.amounts = append(h.amounts, absDecimal(txn.Amount))
		if txn.Date.After(h.last) {
			h.last = txn.Date
		}
	}

	charges := []RecurringCharge{}
	monthly := decimal.Zero
	for _, h := range ordered {
		if len(h.amounts) < 2 {
			continue
		}

		mean := decimal.Avg(h.amounts[0], h.amounts[1:]...)
		deviation := maxDeviation(h.amounts, mean)
		stable := deviation < MaxSubscriptionDeviation

		if !stable && !classification.Subscription.Matches(h.name) {
			continue
		}

		charge := RecurringCharge{
			Merchant:      h.name,
			AverageAmount: mean.Round(2).InexactFloat64(),
			Deviation:     deviation,
			Count:         len(h.amounts),
			LastDate:      h.last,
			Frequency:     FrequencyPeriodic,
			Type:          ChargeRecurring,
		}
		if charge.Count > 2 {
			charge.Frequency = FrequencyMonthly
		}
		if stable {
			charge.Type = ChargeSubscription
		}

		charges = append(charges, charge)
		monthly = monthly.Add(mean.Round(2))
	}

	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].AverageAmount > charges[j].AverageAmount
	})

	tech := []RecurringCharge{}
	for _, c := range charges {
		if classification.TechUtility.Matches(c.Merchant) {
			tech = append(tech, c)
		}
	}

	return RecurringAnalysis{
		Status:               StatusOK,
		Charges:              charges,
		TechCharges:          tech,
		EstimatedMonthlyCost: monthly.InexactFloat64(),
	}
}

// maxDeviation returns max(|a - mean| / mean), or 0 when mean is 0.
func maxDeviation(amounts []decimal.Decimal, mean decimal.Decimal) float64 {
	if mean.IsZero() {
		return 0
	}
	worst := decimal.Zero
	for _, a := range amounts {
		d := a.Sub(mean).Abs().Div(mean)
		if d.GreaterThan(worst) {
			worst = d
		}
	}
	return worst.InexactFloat64()
}
