// Package normalize turns loosely typed account and transaction records into
// the canonical snapshot consumed by the signal extractors.
//
// Upstream sources are unreliable: relational stores hand back decimals as
// strings and uploaded statements are often partially filled. The normalizer
// therefore never rejects a record because of a bad number; it coerces what it
// can and defaults the rest to zero.
package normalize

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// dateLayouts are tried before handing a string to cast, which does not know US dates.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// CoerceNumeric converts v into a finite float64. nil, booleans, non-numeric
// strings, NaN and infinities yield fallback instead of an error.
func CoerceNumeric(v any, fallback float64) float64 {
	var (
		f   float64
		err error
	)

	switch val := v.(type) {
	case nil:
		return fallback
	case bool:
		return fallback
	case float64:
		f = val
	case json.Number:
		f, err = val.Float64()
	case decimal.Decimal:
		f = val.InexactFloat64()
	case *float64:
		if val == nil {
			return fallback
		}
		f = *val
	case *string:
		if val == nil {
			return fallback
		}
		return CoerceNumeric(*val, fallback)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return fallback
		}
		d, decErr := decimal.NewFromString(s)
		if decErr != nil {
			return fallback
		}
		f = d.InexactFloat64()
	default:
		f, err = cast.ToFloat64E(val)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// coerceOptional is CoerceNumeric for fields where absence must stay distinguishable.
func coerceOptional(v any) *float64 {
	if v == nil {
		return nil
	}
	f := CoerceNumeric(v, 0)
	return &f
}

// coerceDate converts v into a time. Unparseable values yield the zero time,
// which downstream extractors treat as "no date".
func coerceDate(v any) time.Time {
	switch val := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t
			}
		}
		t, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}
		}
		return t
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}
		}
		return time.Unix(int64(val), 0).UTC()
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.Unix(n, 0).UTC()
	default:
		t, err := cast.ToTimeE(val)
		if err != nil {
			return time.Time{}
		}
		return t
	}
}

// coerceString flattens category-like values. Lists yield their first non-empty entry.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
		return ""
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				return s
			}
		}
		return ""
	default:
		s, err := cast.ToStringE(val)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
}

// coerceBool accepts booleans and their common textual spellings.
func coerceBool(v any) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}
