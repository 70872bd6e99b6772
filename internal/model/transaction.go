package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single posted or pending movement of money on an account.
// Amount is signed: positive values are inflows, negative values are outflows.
type Transaction struct {
	Date         time.Time `json:"date"`
	ID           string    `json:"transactionId"`
	AccountID    string    `json:"accountId"`
	Description  string    `json:"description"`  // Raw merchant/memo text
	Category     string    `json:"category"`     // Free-text category hint, may be empty
	MerchantName string    `json:"merchantName"` // Cleaned merchant name, may be empty
	Amount       float64   `json:"amount"`
	Pending      bool      `json:"pending"`
}

// IsIncome reports whether the transaction is an inflow.
func (t *Transaction) IsIncome() bool {
	return t.Amount > 0
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// HasDate reports whether the transaction carries a usable date.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// GenerateHash creates a stable identifier for transactions that arrive without one.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
