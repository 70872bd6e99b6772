package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

const defaultCurrency = "USD"

// Normalize builds the canonical snapshot for one report.
func Normalize(in Input, opts Options) (*model.Snapshot, error) {
	accounts, transactions := in.Accounts, in.Transactions
	dateRange := opts.Period

	if in.DateRange != nil {
		dateRange = *in.DateRange
	}

	if in.Statement != nil {
		accounts, transactions = in.Statement.Accounts, in.Statement.Transactions
		if r, ok := statementRange(in.Statement.DateRange); ok {
			dateRange = r
		}
	}

	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	if len(accounts) == 0 && len(transactions) == 0 {
		return nil, common.ErrNoData
	}

	snapshot := &model.Snapshot{
		User:         opts.User,
		Timeframe:    opts.Timeframe,
		DateRange:    dateRange,
		Accounts:     make([]model.Account, 0, len(accounts)),
		Transactions: make([]model.Transaction, 0, len(transactions)),
	}

	for i, raw := range accounts {
		snapshot.Accounts = append(snapshot.Accounts, normalizeAccount(i, raw))
	}

	undated := 0
	for _, raw := range transactions {
		txn := normalizeTransaction(raw)
		if !txn.HasDate() {
			undated++
		}
		snapshot.Transactions = append(snapshot.Transactions, txn)
	}

	slog.Debug("Normalized snapshot",
		"user", opts.User,
		"accounts", len(snapshot.Accounts),
		"transactions", len(snapshot.Transactions),
		"undated_transactions", undated,
		"days_in_period", dateRange.DaysInPeriod())

	return snapshot, nil
}

func normalizeAccount(index int, raw RawAccount) model.Account {
	id := strings.TrimSpace(raw.AccountID)
	if id == "" {
		id = fmt.Sprintf("account-%d", index+1)
	}

	accountType := model.ParseAccountType(strings.ToLower(strings.TrimSpace(raw.Type)))
	if accountType == model.AccountTypeOther {
		accountType = model.ParseAccountType(strings.ToLower(strings.TrimSpace(raw.Subtype)))
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return model.Account{
		ID:               id,
		Name:             strings.TrimSpace(raw.Name),
		Type:             accountType,
		Subtype:          raw.Subtype,
		Currency:         currency,
		Balance:          CoerceNumeric(raw.Balance, 0),
		AvailableBalance: CoerceNumeric(raw.AvailableBalance, 0),
		CreditLimit:      coerceOptional(raw.CreditLimit),
	}
}

func normalizeTransaction(raw RawTransaction) model.Transaction {
	txn := model.Transaction{
		ID:           strings.TrimSpace(raw.TransactionID),
		AccountID:    strings.TrimSpace(raw.AccountID),
		Date:         coerceDate(raw.Date),
		Description:  strings.TrimSpace(raw.Description),
		MerchantName: strings.TrimSpace(raw.MerchantName),
		Category:     coerceString(raw.Category),
		Amount:       CoerceNumeric(raw.Amount, 0),
		Pending:      coerceBool(raw.Pending),
	}

	if txn.ID == "" {
		txn.ID = txn.GenerateHash()
	}

	return txn
}

// statementRange returns the statement's own period when both ends parse.
func statementRange(raw *RawDateRange) (model.DateRange, bool) {
	if raw == nil {
		return model.DateRange{}, false
	}
	start, end := coerceDate(raw.StartDate), coerceDate(raw.EndDate)
	if start.IsZero() || end.IsZero() {
		return model.DateRange{}, false
	}
	return model.DateRange{StartDate: start, EndDate: end}, true
}
