// Package signals computes the deterministic aggregates a report is built
// from. Every extractor is a pure function over an immutable snapshot.
package signals

import (
	"github.com/shopspring/decimal"
)

// Status distinguishes "nothing found" from "not enough history to tell".
type Status string

const (
	// StatusOK means the extractor had enough data to produce a result.
	StatusOK Status = "ok"
	// StatusInsufficientData means the snapshot was too small to analyze.
	StatusInsufficientData Status = "insufficient_data"
)

// UncategorizedLabel groups expenses without a category.
const UncategorizedLabel = "Uncategorized"

// topN is the truncation size for ranked lists.
const topN = 10

// round2 rounds half away from zero to two decimal places.
func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// percent returns part/whole*100 rounded to two places, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2).
		InexactFloat64()
}

// absDecimal returns |amount| as an exact decimal.
func absDecimal(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Abs()
}
