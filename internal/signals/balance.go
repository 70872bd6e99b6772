package signals

import (
	"github.com/shopspring/decimal"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// BalanceSummary is the cash-flow picture for the report period.
type BalanceSummary struct {
	TotalBalance      float64 `json:"totalBalance"`
	Income            float64 `json:"income"`
	Expenses          float64 `json:"expenses"`
	NetChange         float64 `json:"netChange"`
	AverageDailySpend float64 `json:"averageDailySpend"`
	DaysInPeriod      int     `json:"daysInPeriod"`
	AccountCount      int     `json:"accountCount"`
	TransactionCount  int     `json:"transactionCount"`
}

// AnalyzeBalance sums balances and cash flow. Sums are exact, so the result
// does not depend on transaction order.
func AnalyzeBalance(s *model.Snapshot) BalanceSummary {
	total := decimal.Zero
	for _, acct := range s.Accounts {
		total = total.Add(decimal.NewFromFloat(acct.Balance))
	}

	income, expenses := decimal.Zero, decimal.Zero
	for _, txn := range s.Transactions {
		switch {
		case txn.IsIncome():
			income = income.Add(decimal.NewFromFloat(txn.Amount))
		case txn.IsExpense():
			expenses = expenses.Add(absDecimal(txn.Amount))
		}
	}

	days := s.DateRange.DaysInPeriod()
	incomeF, expensesF := income.InexactFloat64(), expenses.InexactFloat64()

	return BalanceSummary{
		TotalBalance:      total.InexactFloat64(),
		Income:            incomeF,
		Expenses:          expensesF,
		NetChange:         incomeF - expensesF,
		AverageDailySpend: expenses.Div(decimal.NewFromInt(int64(days))).InexactFloat64(),
		DaysInPeriod:      days,
		AccountCount:      len(s.Accounts),
		TransactionCount:  len(s.Transactions),
	}
}
