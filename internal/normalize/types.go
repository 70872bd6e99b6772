package normalize

import (
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

// RawAccount is an account record as received from a caller or statement upload.
// Numeric fields are untyped on purpose.
type RawAccount struct {
	Balance          any    `json:"balance"`
	AvailableBalance any    `json:"availableBalance"`
	CreditLimit      any    `json:"creditLimit,omitempty"`
	AccountID        string `json:"accountId"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Subtype          string `json:"subtype,omitempty"`
	Currency         string `json:"currency"`
}

// RawTransaction is a transaction record as received from a caller or statement upload.
type RawTransaction struct {
	Date          any    `json:"date"`
	Amount        any    `json:"amount"`
	Category      any    `json:"category,omitempty"`
	Pending       any    `json:"pending,omitempty"`
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	Description   string `json:"description"`
	MerchantName  string `json:"merchantName,omitempty"`
}

// RawDateRange is a statement-supplied period.
type RawDateRange struct {
	StartDate any `json:"startDate"`
	EndDate   any `json:"endDate"`
}

// Statement is an externally supplied payload carrying its own accounts and transactions.
type Statement struct {
	DateRange    *RawDateRange    `json:"dateRange,omitempty"`
	Accounts     []RawAccount     `json:"accounts"`
	Transactions []RawTransaction `json:"transactions"`
}

// Input is everything the normalizer may be handed for one report. When
// Statement is set it takes precedence over the fetched records.
type Input struct {
	DateRange    *model.DateRange
	Statement    *Statement
	Accounts     []RawAccount
	Transactions []RawTransaction
}

// Options carries the request context the snapshot is stamped with.
type Options struct {
	User      string
	Timeframe string
	// Period is the resolved timeframe, used when the input carries no range of its own.
	Period model.DateRange
}

// FromAccounts converts typed accounts into raw records, e.g. for data fetched by a source adapter.
func FromAccounts(accounts []model.Account) []RawAccount {
	raw := make([]RawAccount, 0, len(accounts))
	for _, a := range accounts {
		r := RawAccount{
			AccountID:        a.ID,
			Name:             a.Name,
			Type:             string(a.Type),
			Subtype:          a.Subtype,
			Currency:         a.Currency,
			Balance:          a.Balance,
			AvailableBalance: a.AvailableBalance,
		}
		if a.CreditLimit != nil {
			r.CreditLimit = *a.CreditLimit
		}
		raw = append(raw, r)
	}
	return raw
}

// FromTransactions converts typed transactions into raw records.
func FromTransactions(transactions []model.Transaction) []RawTransaction {
	raw := make([]RawTransaction, 0, len(transactions))
	for _, t := range transactions {
		r := RawTransaction{
			TransactionID: t.ID,
			AccountID:     t.AccountID,
			Description:   t.Description,
			MerchantName:  t.MerchantName,
			Amount:        t.Amount,
			Pending:       t.Pending,
		}
		if !t.Date.IsZero() {
			r.Date = t.Date
		}
		if t.Category != "" {
			r.Category = t.Category
		}
		raw = append(raw, r)
	}
	return raw
}
