// Package model defines the read-only snapshot types the analytics pipeline operates on.
package model

// AccountType is the broad kind of a financial account.
type AccountType string

const (
	// AccountTypeDepository covers checking and savings accounts.
	AccountTypeDepository AccountType = "depository"
	// AccountTypeCredit covers credit cards and lines of credit.
	AccountTypeCredit AccountType = "credit"
	// AccountTypeLoan covers mortgages and installment loans.
	AccountTypeLoan AccountType = "loan"
	// AccountTypeInvestment covers brokerage and retirement accounts.
	AccountTypeInvestment AccountType = "investment"
	// AccountTypeOther is used when the source does not say.
	AccountTypeOther AccountType = "other"
)

// Account is a point-in-time view of one account's balances.
type Account struct {
	CreditLimit      *float64    `json:"creditLimit,omitempty"`
	ID               string      `json:"accountId"`
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	Subtype          string      `json:"subtype,omitempty"`
	Currency         string      `json:"currency"`
	Balance          float64     `json:"balance"`
	AvailableBalance float64     `json:"availableBalance"`
}

// ParseAccountType maps free-form type labels onto an AccountType.
func ParseAccountType(s string) AccountType {
	switch s {
	case "depository", "checking", "savings":
		return AccountTypeDepository
	case "credit", "credit card", "credit_card":
		return AccountTypeCredit
	case "loan", "mortgage":
		return AccountTypeLoan
	case "investment", "brokerage":
		return AccountTypeInvestment
	default:
		return AccountTypeOther
	}
}
