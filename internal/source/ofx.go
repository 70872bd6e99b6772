package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML opening tags at end of line that lost their closing bracket.
	unclosedTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXParser converts OFX/QFX bank and credit card downloads into snapshot records.
type OFXParser struct{}

// NewOFXParser creates a new OFX parser.
func NewOFXParser() *OFXParser {
	return &OFXParser{}
}

// OFXStatement is the content of one OFX download.
type OFXStatement struct {
	// DateRange spans every statement's transaction list, when any declared one.
	DateRange    *model.DateRange
	Accounts     []model.Account
	Transactions []model.Transaction
}

// repair fixes formatting issues common in bank-exported files.
func (p *OFXParser) repair(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagPattern.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX document. Amounts keep the OFX sign: debits are negative.
func (p *OFXParser) Parse(_ context.Context, r io.Reader) (*OFXStatement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.repair(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	out := &OFXStatement{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++

		accountID := string(stmt.BankAcctFrom.AcctID)
		acct := model.Account{
			ID:       accountID,
			Name:     fmt.Sprintf("%s %s", titleCase(stmt.BankAcctFrom.AcctType.String()), lastFour(accountID)),
			Type:     model.ParseAccountType(strings.ToLower(stmt.BankAcctFrom.AcctType.String())),
			Subtype:  strings.ToLower(stmt.BankAcctFrom.AcctType.String()),
			Currency: currencyOf(stmt.CurDef),
			Balance:  amountOf(stmt.BalAmt),
		}
		acct.AvailableBalance = acct.Balance
		if stmt.AvailBalAmt != nil {
			acct.AvailableBalance = amountOf(*stmt.AvailBalAmt)
		}
		out.Accounts = append(out.Accounts, acct)
		out.addTransactions(p, stmt.BankTranList, accountID)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++

		accountID := string(stmt.CCAcctFrom.AcctID)
		acct := model.Account{
			ID:       accountID,
			Name:     "Credit Card " + lastFour(accountID),
			Type:     model.AccountTypeCredit,
			Currency: currencyOf(stmt.CurDef),
			Balance:  amountOf(stmt.BalAmt),
		}
		if stmt.AvailBalAmt != nil {
			acct.AvailableBalance = amountOf(*stmt.AvailBalAmt)
		}
		out.Accounts = append(out.Accounts, acct)
		out.addTransactions(p, stmt.BankTranList, accountID)
	}

	slog.Info("Parsed OFX file",
		"accounts", len(out.Accounts),
		"total_transactions", len(out.Transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return out, nil
}

func (s *OFXStatement) addTransactions(p *OFXParser, list *ofxgo.TransactionList, accountID string) {
	if list == nil {
		return
	}

	start, end := list.DtStart.Time, list.DtEnd.Time
	if !start.IsZero() && !end.IsZero() && !start.After(end) {
		if s.DateRange == nil {
			s.DateRange = &model.DateRange{StartDate: start, EndDate: end}
		} else {
			if start.Before(s.DateRange.StartDate) {
				s.DateRange.StartDate = start
			}
			if end.After(s.DateRange.EndDate) {
				s.DateRange.EndDate = end
			}
		}
	}

	for _, tx := range list.Transactions {
		s.Transactions = append(s.Transactions, p.convertTransaction(tx, accountID))
	}
}

func (p *OFXParser) convertTransaction(tx ofxgo.Transaction, accountID string) model.Transaction {
	out := model.Transaction{
		ID:           string(tx.FiTID),
		AccountID:    accountID,
		Date:         tx.DtPosted.Time,
		Description:  strings.TrimSpace(string(tx.Name)),
		MerchantName: p.merchantName(tx),
		Amount:       amountOf(tx.TrnAmt),
	}

	// OFX has no categories; a few transaction types imply one.
	switch tx.TrnType.String() {
	case "INT", "DIV":
		out.Category = "Interest"
	case "FEE", "SRVCHG":
		out.Category = "Bank Fees"
	case "ATM":
		out.Category = "Cash & ATM"
	}

	if out.ID == "" {
		out.ID = out.GenerateHash()
	}
	return out
}

// merchantName prefers the PAYEE aggregate, then a MEMO when NAME is generic.
func (p *OFXParser) merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	if tx.Memo != "" && isGenericDescription(string(tx.Name)) {
		return strings.TrimSpace(string(tx.Memo))
	}
	return ""
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

func amountOf(a ofxgo.Amount) float64 {
	f, _ := a.Float64()
	return f
}

func currencyOf(c ofxgo.CurrSymbol) string {
	code := c.String()
	if code == "" || code == "XXX" {
		return ""
	}
	return code
}

func lastFour(id string) string {
	if len(id) <= 4 {
		return id
	}
	return "..." + id[len(id)-4:]
}

func titleCase(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return "Account"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// OFXFile is an OFX/QFX download on disk.
type OFXFile struct {
	Parser *OFXParser
	Path   string
}

// Ensure OFXFile implements SnapshotSource.
var _ SnapshotSource = OFXFile{}

// Name implements SnapshotSource.
func (f OFXFile) Name() string {
	return "ofx"
}

// Fetch implements SnapshotSource.
func (f OFXFile) Fetch(ctx context.Context, _ model.DateRange) (normalize.Input, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return normalize.Input{}, fmt.Errorf("failed to open OFX file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close OFX file", "path", f.Path, "error", closeErr)
		}
	}()

	parser := f.Parser
	if parser == nil {
		parser = NewOFXParser()
	}

	stmt, err := parser.Parse(ctx, file)
	if err != nil {
		return normalize.Input{}, err
	}

	return normalize.Input{
		DateRange:    stmt.DateRange,
		Accounts:     normalize.FromAccounts(stmt.Accounts),
		Transactions: normalize.FromTransactions(stmt.Transactions),
	}, nil
}
