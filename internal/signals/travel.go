package signals

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/classification"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// TravelGapDays is the largest gap in days between travel transactions of one period.
const TravelGapDays = 5

// minTravelTransactions is the snapshot size below which travel is not analyzed.
const minTravelTransactions = 5

// TravelPeriod is a date-clustered run of travel transactions.
type TravelPeriod struct {
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	DurationDays     int       `json:"durationDays"`
	TotalSpend       float64   `json:"totalSpend"`
	TransactionCount int       `json:"transactionCount"`
}

// TravelAnalysis lists travel periods in chronological order.
type TravelAnalysis struct {
	Status  Status         `json:"status"`
	Periods []TravelPeriod `json:"periods"`
}

// IsTravel reports whether a transaction matches the travel keyword table.
func IsTravel(txn model.Transaction) bool {
	return classification.Travel.Matches(txn.Description, txn.MerchantName, txn.Category)
}

// ClusterTravel groups travel transactions into periods. A match more than
// TravelGapDays after the current period's latest match starts a new period.
func ClusterTravel(s *model.Snapshot) TravelAnalysis {
	if len(s.Transactions) < minTravelTransactions {
		return TravelAnalysis{Status: StatusInsufficientData, Periods: []TravelPeriod{}}
	}

	var matches []model.Transaction
	for _, txn := range s.Transactions {
		if txn.HasDate() && IsTravel(txn) {
			matches = append(matches, txn)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})

	periods := []TravelPeriod{}
	var (
		current *TravelPeriod
		spend   decimal.Decimal
	)
	flush := func() {
		if current == nil {
			return
		}
		current.DurationDays = daysBetween(current.StartDate, current.EndDate) + 1
		current.TotalSpend = spend.InexactFloat64()
		periods = append(periods, *current)
	}

	for _, txn := range matches {
		day := calendarDay(txn.Date)
		if current == nil || daysBetween(current.EndDate, day) > TravelGapDays {
			flush()
			current = &TravelPeriod{StartDate: day, EndDate: day}
			spend = decimal.Zero
		}
		current.EndDate = day
		current.TransactionCount++
		if txn.IsExpense() {
			spend = spend.Add(absDecimal(txn.Amount))
		}
	}
	flush()

	return TravelAnalysis{Status: StatusOK, Periods: periods}
}

// calendarDay truncates t to midnight UTC of its UTC date.
func calendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b; both must be calendar days.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
