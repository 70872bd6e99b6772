package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

func testPeriod() model.DateRange {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return model.DateRange{StartDate: end.AddDate(0, 0, -90), EndDate: end}
}

func TestNormalize_FetchedRecords(t *testing.T) {
	in := Input{
		Accounts: []RawAccount{
			{AccountID: "chk-1", Name: "Everyday Checking", Type: "depository", Subtype: "checking", Balance: "4879.23", AvailableBalance: nil},
			{Name: "Card", Type: "credit", Balance: -250.5, AvailableBalance: 1749.5, CreditLimit: "2000"},
		},
		Transactions: []RawTransaction{
			{TransactionID: "t1", AccountID: "chk-1", Date: "2024-06-01", Description: "PAYROLL", Amount: "2650.25", Category: "Income"},
			{AccountID: "chk-1", Date: "garbage", Description: "RENT", Amount: -1950.0, Pending: "true"},
		},
	}

	snapshot, err := Normalize(in, Options{User: "user-1", Timeframe: "90d", Period: testPeriod()})
	require.NoError(t, err)

	assert.Equal(t, "user-1", snapshot.User)
	assert.Equal(t, "90d", snapshot.Timeframe)
	assert.Equal(t, testPeriod(), snapshot.DateRange)

	require.Len(t, snapshot.Accounts, 2)
	assert.Equal(t, 4879.23, snapshot.Accounts[0].Balance)
	assert.Equal(t, 0.0, snapshot.Accounts[0].AvailableBalance)
	assert.Equal(t, model.AccountTypeDepository, snapshot.Accounts[0].Type)
	assert.Equal(t, "USD", snapshot.Accounts[0].Currency)
	assert.Nil(t, snapshot.Accounts[0].CreditLimit)

	assert.Equal(t, "account-2", snapshot.Accounts[1].ID)
	assert.Equal(t, model.AccountTypeCredit, snapshot.Accounts[1].Type)
	require.NotNil(t, snapshot.Accounts[1].CreditLimit)
	assert.Equal(t, 2000.0, *snapshot.Accounts[1].CreditLimit)

	require.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, 2650.25, snapshot.Transactions[0].Amount)
	assert.Equal(t, "Income", snapshot.Transactions[0].Category)
	assert.False(t, snapshot.Transactions[1].HasDate())
	assert.True(t, snapshot.Transactions[1].Pending)
	assert.NotEmpty(t, snapshot.Transactions[1].ID)
}

func TestNormalize_StatementPayload(t *testing.T) {
	payload := `{
		"dateRange": {"startDate": "2024-01-01", "endDate": "2024-03-31"},
		"accounts": [{"accountId": "a1", "name": "Checking", "type": "checking", "balance": "1000.10", "availableBalance": null}],
		"transactions": [
			{"transactionId": "s1", "accountId": "a1", "date": "2024-02-01", "description": "Coffee", "amount": "-4.50"},
			{"transactionId": "s2", "accountId": "a1", "date": "2024-02-02", "description": "Mystery", "amount": "abc"}
		]
	}`

	var stmt Statement
	require.NoError(t, json.Unmarshal([]byte(payload), &stmt))

	in := Input{
		Statement: &stmt,
		Accounts:  []RawAccount{{AccountID: "ignored", Balance: 1}},
	}
	snapshot, err := Normalize(in, Options{Period: testPeriod()})
	require.NoError(t, err)

	require.Len(t, snapshot.Accounts, 1)
	assert.Equal(t, "a1", snapshot.Accounts[0].ID)
	assert.InDelta(t, 1000.10, snapshot.Accounts[0].Balance, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), snapshot.DateRange.StartDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), snapshot.DateRange.EndDate)
	assert.Equal(t, -4.5, snapshot.Transactions[0].Amount)
	assert.Equal(t, 0.0, snapshot.Transactions[1].Amount)
}

func TestNormalize_InvertedStatementRange(t *testing.T) {
	stmt := &Statement{
		DateRange:    &RawDateRange{StartDate: "2024-04-01", EndDate: "2024-03-01"},
		Transactions: []RawTransaction{{Amount: -1}},
	}

	_, err := Normalize(Input{Statement: stmt}, Options{Period: testPeriod()})
	assert.ErrorIs(t, err, common.ErrInvertedDateRange)
}

func TestNormalize_NoData(t *testing.T) {
	_, err := Normalize(Input{}, Options{Period: testPeriod()})
	assert.ErrorIs(t, err, common.ErrNoData)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := []RawTransaction{{Description: "  padded  ", Amount: "-3"}}
	_, err := Normalize(Input{Transactions: raw}, Options{Period: testPeriod()})
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", raw[0].Description)
	assert.Equal(t, "-3", raw[0].Amount)
}

func TestFromTypedRecords(t *testing.T) {
	limit := 5000.0
	accounts := FromAccounts([]model.Account{{ID: "a", Type: model.AccountTypeCredit, Balance: -10, CreditLimit: &limit}})
	txns := FromTransactions([]model.Transaction{{ID: "t", Amount: -10, Category: "Dining"}})

	snapshot, err := Normalize(Input{Accounts: accounts, Transactions: txns}, Options{Period: testPeriod()})
	require.NoError(t, err)
	assert.Equal(t, -10.0, snapshot.Accounts[0].Balance)
	assert.Equal(t, 5000.0, *snapshot.Accounts[0].CreditLimit)
	assert.Equal(t, "Dining", snapshot.Transactions[0].Category)
	assert.False(t, snapshot.Transactions[0].HasDate())
}
