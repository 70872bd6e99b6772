package model

// Snapshot is the canonical, normalized data set one report is computed from.
// Nothing downstream of the normalizer mutates it.
type Snapshot struct {
	User         string        `json:"user"`
	Timeframe    string        `json:"timeframe"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	DateRange    DateRange     `json:"dateRange"`
}

// Expenses returns the outflow transactions in snapshot order.
func (s *Snapshot) Expenses() []Transaction {
	expenses := make([]Transaction, 0, len(s.Transactions))
	for _, txn := range s.Transactions {
		if txn.IsExpense() {
			expenses = append(expenses, txn)
		}
	}
	return expenses
}
