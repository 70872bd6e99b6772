package signals

import (
	"time"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// CadenceAnalysis describes when expenses happen. The day axis and the time
// axis each sum to 100 percent on their own.
type CadenceAnalysis struct {
	WeekdayCount      int     `json:"weekdayCount"`
	WeekendCount      int     `json:"weekendCount"`
	WeekdayPercent    float64 `json:"weekdayPercent"`
	WeekendPercent    float64 `json:"weekendPercent"`
	MorningCount      int     `json:"morningCount"`
	AfternoonCount    int     `json:"afternoonCount"`
	EveningCount      int     `json:"eveningCount"`
	MorningPercent    float64 `json:"morningPercent"`
	AfternoonPercent  float64 `json:"afternoonPercent"`
	EveningPercent    float64 `json:"eveningPercent"`
	TransactionsTimed int     `json:"transactionsTimed"`
}

// TimeOfDay is a coarse bucket of the hour a transaction happened in.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// BucketHour maps an hour of day to its bucket: 05-11 morning, 12-17 afternoon, otherwise evening.
func BucketHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// AnalyzeCadence buckets expense transactions by weekday/weekend and time of
// day. Transactions without a usable date are skipped.
func AnalyzeCadence(s *model.Snapshot) CadenceAnalysis {
	var c CadenceAnalysis

	for _, txn := range s.Transactions {
		if !txn.IsExpense() || !txn.HasDate() {
			continue
		}
		c.TransactionsTimed++

		if IsWeekend(txn.Date.Weekday()) {
			c.WeekendCount++
		} else {
			c.WeekdayCount++
		}

		switch BucketHour(txn.Date.Hour()) {
		case Morning:
			c.MorningCount++
		case Afternoon:
			c.AfternoonCount++
		default:
			c.EveningCount++
		}
	}

	n := c.TransactionsTimed
	c.WeekdayPercent = percent(c.WeekdayCount, n)
	c.WeekendPercent = percent(c.WeekendCount, n)
	c.MorningPercent = percent(c.MorningCount, n)
	c.AfternoonPercent = percent(c.AfternoonCount, n)
	c.EveningPercent = percent(c.EveningCount, n)

	return c
}
