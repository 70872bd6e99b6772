package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

var (
	fixedNow    = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	periodStart = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func txn(date time.Time, desc, category string, amount float64) model.Transaction {
	return model.Transaction{
		ID:          desc + date.Format("0102"),
		AccountID:   "chk-1",
		Date:        date,
		Description: desc,
		Category:    category,
		Amount:      amount,
	}
}

// householdInput is one checking account and twenty transactions over 90 days.
func householdInput() normalize.Input {
	accounts := []model.Account{{
		ID:       "chk-1",
		Name:     "Everyday Checking",
		Type:     model.AccountTypeDepository,
		Currency: "USD",
		Balance:  4879.23,
	}}

	txns := []model.Transaction{
		txn(day(time.April, 1), "PAYROLL ACME CORP", "Income", 2650.25),
		txn(day(time.April, 1), "RENT PAYMENT", "Housing", -1950.00),
		txn(day(time.April, 2), "POS STARBUCKS 04/02/2024", "Coffee Shops", -5.75),
		txn(day(time.April, 3), "WHOLE FOODS MARKET", "Groceries", -82.10),
		txn(day(time.April, 5), "NETFLIX.COM", "Entertainment", -15.49),
		txn(day(time.April, 10), "UBER *TRIP", "Travel", -18.40),
		txn(day(time.April, 12), "UBER *TRIP", "Travel", -22.60),
		txn(day(time.April, 15), "CITY ELECTRIC", "Utilities", -120.00),
		txn(day(time.April, 20), "POS STARBUCKS 04/20/2024", "Coffee Shops", -5.75),
		txn(day(time.May, 1), "PAYROLL ACME CORP", "Income", 2650.25),
		txn(day(time.May, 3), "WHOLE FOODS MARKET", "Groceries", -95.40),
		txn(day(time.May, 5), "NETFLIX.COM", "Entertainment", -15.49),
		txn(day(time.May, 9), "POS STARBUCKS 05/09/2024", "Coffee Shops", -5.75),
		txn(day(time.May, 15), "CITY ELECTRIC", "Utilities", -118.50),
		txn(day(time.May, 18), "OLIVE GARDEN", "Dining", -64.20),
		txn(day(time.June, 1), "PAYROLL ACME CORP", "Income", 2650.25),
		txn(day(time.June, 3), "WHOLE FOODS MARKET", "Groceries", -77.25),
		txn(day(time.June, 5), "NETFLIX.COM", "Entertainment", -15.49),
		txn(day(time.June, 9), "POS STARBUCKS 06/09/2024", "Coffee Shops", -5.75),
		txn(day(time.June, 20), "WHOLE FOODS MARKET", "Groceries", -101.30),
	}

	return normalize.Input{
		DateRange: &model.DateRange{
			StartDate: periodStart,
			EndDate:   periodStart.AddDate(0, 0, 90),
		},
		Accounts:     normalize.FromAccounts(accounts),
		Transactions: normalize.FromTransactions(txns),
	}
}

func newTestEngine(t *testing.T, oracle Oracle, cfg *Config) *Engine {
	t.Helper()
	engine, err := NewEngineWithConfig(Deps{
		Oracle: oracle,
		Now:    func() time.Time { return fixedNow },
	}, cfg)
	require.NoError(t, err)
	return engine
}
