package signals

import (
	"regexp"
	"strings"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// UnknownMerchant is used when no name can be derived.
const UnknownMerchant = "Unknown"

var (
	leadingPrefix  = regexp.MustCompile(`(?i)^((check\s*card|debit\s*card|purchase|recurring|debit|pos|ach|pmt)\b[\s:#*\-]*|(sq|tst)\s*\*\s*)`)
	trailingDate   = regexp.MustCompile(`\s*\d{1,2}/\d{1,2}/(\d{4}|\d{2})$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// MerchantStat is one merchant's expense frequency.
type MerchantStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// MerchantAnalysis ranks merchants by expense transaction count.
type MerchantAnalysis struct {
	TopMerchants   []MerchantStat `json:"topMerchants"`
	TotalMerchants int            `json:"totalMerchants"`
}

// MerchantName returns the transaction's merchant, deriving it from the
// description when the source did not supply one.
func MerchantName(txn model.Transaction) string {
	if name := strings.TrimSpace(txn.MerchantName); name != "" {
		return name
	}
	return CleanDescription(txn.Description)
}

// CleanDescription strips transactional prefixes and a trailing date from a raw description.
func CleanDescription(desc string) string {
	name := strings.TrimSpace(desc)
	for {
		stripped := strings.TrimSpace(leadingPrefix.ReplaceAllString(name, ""))
		if stripped == name {
			break
		}
		name = stripped
	}
	name = strings.TrimSpace(trailingDate.ReplaceAllString(name, ""))
	name = repeatedSpaces.ReplaceAllString(name, " ")

	if name == "" {
		return UnknownMerchant
	}
	return name
}

// AnalyzeMerchants returns the ten merchants with the most expense transactions.
func AnalyzeMerchants(s *model.Snapshot) MerchantAnalysis {
	buckets := groupExpenses(s.Transactions, MerchantName)
	totalMerchants := len(buckets)
	if len(buckets) > topN {
		buckets = buckets[:topN]
	}

	stats := make([]MerchantStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, MerchantStat{
			Name:  b.name,
			Count: b.count,
			Total: b.total.InexactFloat64(),
		})
	}

	return MerchantAnalysis{
		TopMerchants:   stats,
		TotalMerchants: totalMerchants,
	}
}

// Top returns at most n merchants.
func (a MerchantAnalysis) Top(n int) []MerchantStat {
	if n >= len(a.TopMerchants) {
		return a.TopMerchants
	}
	return a.TopMerchants[:n]
}
