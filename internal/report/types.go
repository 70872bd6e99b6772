// Package report assembles financial intelligence reports: it runs the signal
// extractors over a normalized snapshot, narrates each section through a
// text-generation oracle, and formats the result.
package report

import (
	"time"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/signals"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

// SectionKind identifies a report section.
type SectionKind string

// Section kinds in report order.
const (
	SectionAccountSummary SectionKind = "account-summary"
	SectionBehavior       SectionKind = "behavior"
	SectionMerchants      SectionKind = "merchants"
	SectionRisk           SectionKind = "risk"
	SectionCadence        SectionKind = "cadence"
	SectionRecurring      SectionKind = "recurring"
	SectionTravel         SectionKind = "travel"
	SectionBackendRules   SectionKind = "backend-rules"
)

var sectionTitles = map[SectionKind]string{
	SectionAccountSummary: "Account Summary",
	SectionBehavior:       "Spending Behavior",
	SectionMerchants:      "Merchant Concentration",
	SectionRisk:           "Liquidity & Risk",
	SectionCadence:        "Spending Cadence",
	SectionRecurring:      "Recurring Charges",
	SectionTravel:         "Travel Activity",
	SectionBackendRules:   "Suggested Automations",
}

// Title returns the display title of the section kind.
func (k SectionKind) Title() string {
	if t, ok := sectionTitles[k]; ok {
		return t
	}
	return string(k)
}

// BaseSections are always produced.
func BaseSections() []SectionKind {
	return []SectionKind{SectionAccountSummary, SectionBehavior, SectionMerchants, SectionRisk}
}

// DetailedSections are appended in detailed mode.
func DetailedSections() []SectionKind {
	return []SectionKind{SectionCadence, SectionRecurring, SectionTravel, SectionBackendRules}
}

// Output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// Request asks for one user's report.
type Request struct {
	Statement       *normalize.Statement `json:"statementData,omitempty"`
	UserID          string               `json:"userId"`
	Timeframe       string               `json:"timeframe"`
	RequestID       string               `json:"requestId"`
	Format          string               `json:"format"`
	IncludeDetailed bool                 `json:"includeDetailed"`
}

// Section is one narrated part of a report.
type Section struct {
	Metrics  any         `json:"metrics,omitempty"`
	ID       SectionKind `json:"id"`
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	Order    int         `json:"order"`
	Fallback bool        `json:"fallback"`
}

// Period is the reporting window.
type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Timeframe string    `json:"timeframe"`
	Days      int       `json:"days"`
}

// IsAllTime reports whether the window covers all history.
func (p Period) IsAllTime() bool {
	return p.Timeframe == timeframe.All || p.StartDate.IsZero() || p.StartDate.Equal(timeframe.Epoch)
}

// Summary repeats the headline numbers for machine consumers.
type Summary struct {
	TopCategories     []signals.CategoryStat `json:"topCategories"`
	TopMerchants      []signals.MerchantStat `json:"topMerchants"`
	TotalBalance      float64                `json:"totalBalance"`
	Income            float64                `json:"income"`
	Expenses          float64                `json:"expenses"`
	NetChange         float64                `json:"netChange"`
	AverageDailySpend float64                `json:"averageDailySpend"`
	DaysOfRunway      float64                `json:"daysOfRunway"`
	RiskCount         int                    `json:"riskCount"`
	HasCriticalRisks  bool                   `json:"hasCriticalRisks"`
}

// Report is the assembled envelope. A new call always produces a new Report.
type Report struct {
	Generated    time.Time `json:"generated"`
	ID           string    `json:"id"`
	RequestID    string    `json:"requestId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Format       string    `json:"format"`
	Sections     []Section `json:"sections"`
	Summary      Summary   `json:"summary"`
	Period       Period    `json:"period"`
	IsPdfPending bool      `json:"isPdfPending,omitempty"`
}

// Section returns the section of the given kind.
func (r *Report) Section(kind SectionKind) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == kind {
			return s, true
		}
	}
	return Section{}, false
}

// FallbackCount returns how many sections carry fallback prose.
func (r *Report) FallbackCount() int {
	n := 0
	for _, s := range r.Sections {
		if s.Fallback {
			n++
		}
	}
	return n
}
