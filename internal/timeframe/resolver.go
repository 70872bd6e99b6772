// Package timeframe resolves symbolic report periods such as "30d" or "6m" into date ranges.
package timeframe

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

const (
	// All is the symbolic timeframe covering the whole history.
	All = "all"
	// Default is used whenever a timeframe cannot be parsed.
	Default = "30d"
	// DefaultDays is the window length of the fallback timeframe.
	DefaultDays = 30
)

// Epoch is the start of the "all" timeframe.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var timeframePattern = regexp.MustCompile(`^(\d+)([dmy])$`)

// Unit is the calendar unit of a parsed timeframe.
type Unit byte

// Supported units.
const (
	Days   Unit = 'd'
	Months Unit = 'm'
	Years  Unit = 'y'
)

// maxCount bounds each unit to a century so calendar arithmetic cannot overflow.
var maxCount = map[Unit]int{
	Days:   36525,
	Months: 1200,
	Years:  100,
}

// Spec is a parsed timeframe.
type Spec struct {
	Count int
	Unit  Unit
	All   bool
}

// Parse parses a timeframe string. The boolean is false when the input is
// not a recognized timeframe.
func Parse(tf string) (Spec, bool) {
	tf = strings.ToLower(strings.TrimSpace(tf))
	if tf == All {
		return Spec{All: true}, true
	}

	m := timeframePattern.FindStringSubmatch(tf)
	if m == nil {
		return Spec{}, false
	}

	unit := Unit(m[2][0])
	count, err := strconv.Atoi(m[1])
	if err != nil || count > maxCount[unit] {
		return Spec{}, false
	}

	return Spec{Count: count, Unit: unit}, true
}

// Resolve converts a timeframe into a concrete date range ending at now.
// Unrecognized input silently resolves to a 30 day window.
func Resolve(tf string, now time.Time) model.DateRange {
	spec, ok := Parse(tf)
	if !ok {
		spec = Spec{Count: DefaultDays, Unit: Days}
	}
	return spec.Range(now)
}

// Range returns the date range of the spec ending at now.
func (s Spec) Range(now time.Time) model.DateRange {
	if s.All {
		return model.DateRange{StartDate: Epoch, EndDate: now}
	}

	var start time.Time
	switch s.Unit {
	case Months:
		start = now.AddDate(0, -s.Count, 0)
	case Years:
		start = now.AddDate(-s.Count, 0, 0)
	default:
		start = now.AddDate(0, 0, -s.Count)
	}
	if start.After(now) {
		start = Epoch
	}

	return model.DateRange{StartDate: start, EndDate: now}
}

// String renders the spec back into its symbolic form.
func (s Spec) String() string {
	if s.All {
		return All
	}
	return strconv.Itoa(s.Count) + string(s.Unit)
}
