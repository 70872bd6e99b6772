package signals

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/classification"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// CategoryStat is one spending category's frequency.
type CategoryStat struct {
	Name           string                         `json:"name"`
	Elasticity     classification.ElasticityLabel `json:"elasticity"`
	Count          int                            `json:"count"`
	Total          float64                        `json:"total"`
	PercentOfTotal float64                        `json:"percentOfTotal"`
}

// CategoryAnalysis ranks expense categories by transaction count.
type CategoryAnalysis struct {
	TopCategories   []CategoryStat `json:"topCategories"`
	TotalCategories int            `json:"totalCategories"`
}

type bucket struct {
	name  string
	count int
	total decimal.Decimal
}

// groupExpenses buckets expense transactions by key, preserving first-seen order.
func groupExpenses(txns []model.Transaction, key func(model.Transaction) string) []*bucket {
	index := make(map[string]*bucket)
	var ordered []*bucket

	for _, txn := range txns {
		if !txn.IsExpense() {
			continue
		}
		k := key(txn)
		b, ok := index[k]
		if !ok {
			b = &bucket{name: k, total: decimal.Zero}
			index[k] = b
			ordered = append(ordered, b)
		}
		b.count++
		b.total = b.total.Add(absDecimal(txn.Amount))
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].count > ordered[j].count
	})
	return ordered
}

func categoryOf(txn model.Transaction) string {
	if c := strings.TrimSpace(txn.Category); c != "" {
		return c
	}
	return UncategorizedLabel
}

// AnalyzeCategories returns the ten most frequent expense categories.
// PercentOfTotal is relative to the returned ten, not the full population.
func AnalyzeCategories(s *model.Snapshot) CategoryAnalysis {
	buckets := groupExpenses(s.Transactions, categoryOf)
	totalCategories := len(buckets)
	if len(buckets) > topN {
		buckets = buckets[:topN]
	}

	counted := 0
	for _, b := range buckets {
		counted += b.count
	}

	stats := make([]CategoryStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, CategoryStat{
			Name:           b.name,
			Count:          b.count,
			Total:          b.total.InexactFloat64(),
			PercentOfTotal: percent(b.count, counted),
			Elasticity:     classification.Elasticity(b.name),
		})
	}

	return CategoryAnalysis{
		TopCategories:   stats,
		TotalCategories: totalCategories,
	}
}

// Top returns at most n categories.
func (a CategoryAnalysis) Top(n int) []CategoryStat {
	if n >= len(a.TopCategories) {
		return a.TopCategories
	}
	return a.TopCategories[:n]
}

// Find returns the category with the given name, ignoring case.
func (a CategoryAnalysis) Find(name string) (CategoryStat, bool) {
	for _, c := range a.TopCategories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CategoryStat{}, false
}
