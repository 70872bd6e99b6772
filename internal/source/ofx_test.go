package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240401120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

const checkingOFX = ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>021000021
<ACCTID>9876543210
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240331120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240301120000[0:GMT]
<TRNAMT>2650.25
<FITID>20240301A
<NAME>PAYROLL ACME CORP
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240304120000[0:GMT]
<TRNAMT>-5.75
<FITID>20240304A
<NAME>POS STARBUCKS #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240306120000[0:GMT]
<TRNAMT>-64.20
<FITID>20240306A
<NAME>PURCHASE
<MEMO>OLIVE GARDEN 0042
</STMTTRN>
<STMTTRN>
<TRNTYPE>FEE
<DTPOSTED>20240331120000[0:GMT]
<TRNAMT>-12.00
<FITID>20240331A
<NAME>MONTHLY SERVICE FEE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>4879.23
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
<AVAILBAL>
<BALAMT>4800.00
<DTASOF>20240331120000[0:GMT]
</AVAILBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const creditCardOFX = ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240215120000[0:GMT]
<DTEND>20240415120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310120000[0:GMT]
<TRNAMT>-15.49
<FITID>CC20240310
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestOFXParser_Checking(t *testing.T) {
	stmt, err := NewOFXParser().Parse(context.Background(), strings.NewReader(checkingOFX))
	require.NoError(t, err)

	require.Len(t, stmt.Accounts, 1)
	acct := stmt.Accounts[0]
	assert.Equal(t, "9876543210", acct.ID)
	assert.Equal(t, model.AccountTypeDepository, acct.Type)
	assert.Equal(t, "checking", acct.Subtype)
	assert.Equal(t, "Checking ...3210", acct.Name)
	assert.Equal(t, "USD", acct.Currency)
	assert.InDelta(t, 4879.23, acct.Balance, 1e-9)
	assert.InDelta(t, 4800.00, acct.AvailableBalance, 1e-9)

	require.Len(t, stmt.Transactions, 4)

	payroll := stmt.Transactions[0]
	assert.Equal(t, "20240301A", payroll.ID)
	assert.Equal(t, "PAYROLL ACME CORP", payroll.Description)
	assert.InDelta(t, 2650.25, payroll.Amount, 1e-9)
	assert.True(t, payroll.IsIncome())

	coffee := stmt.Transactions[1]
	assert.InDelta(t, -5.75, coffee.Amount, 1e-9)
	assert.True(t, coffee.IsExpense())
	assert.Equal(t, 2024, coffee.Date.Year())
	assert.Equal(t, time.March, coffee.Date.Month())
	assert.Equal(t, 4, coffee.Date.Day())
	assert.Empty(t, coffee.MerchantName)

	dining := stmt.Transactions[2]
	assert.Equal(t, "OLIVE GARDEN 0042", dining.MerchantName)

	fee := stmt.Transactions[3]
	assert.Equal(t, "Bank Fees", fee.Category)

	require.NotNil(t, stmt.DateRange)
	assert.Equal(t, 1, stmt.DateRange.StartDate.Day())
	assert.Equal(t, 31, stmt.DateRange.EndDate.Day())
}

func TestOFXParser_CreditCard(t *testing.T) {
	stmt, err := NewOFXParser().Parse(context.Background(), strings.NewReader(creditCardOFX))
	require.NoError(t, err)

	require.Len(t, stmt.Accounts, 1)
	assert.Equal(t, model.AccountTypeCredit, stmt.Accounts[0].Type)
	assert.InDelta(t, -500.0, stmt.Accounts[0].Balance, 1e-9)

	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "4111111111111111", stmt.Transactions[0].AccountID)
	assert.InDelta(t, -15.49, stmt.Transactions[0].Amount, 1e-9)
}

func TestOFXParser_Invalid(t *testing.T) {
	for _, data := range []string{"", "not valid OFX"} {
		_, err := NewOFXParser().Parse(context.Background(), strings.NewReader(data))
		assert.Error(t, err)
	}
}

func TestOFXParser_Repair(t *testing.T) {
	p := NewOFXParser()

	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", p.repair("\n\n  <SEVERITY>Info</SEVERITY>"))
	assert.Equal(t, "<STMTTRN>\n<NAME>X", p.repair("<STMTTRN\n<NAME>X"))
}

func TestOFXParser_MerchantName(t *testing.T) {
	p := NewOFXParser()

	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{name: "payee wins", tx: ofxgo.Transaction{Name: "POS 123", Payee: &ofxgo.Payee{Name: "Corner Cafe"}}, want: "Corner Cafe"},
		{name: "memo for generic name", tx: ofxgo.Transaction{Name: "DEBIT", Memo: " WHOLE FOODS "}, want: "WHOLE FOODS"},
		{name: "specific name", tx: ofxgo.Transaction{Name: "NETFLIX.COM", Memo: "ignored"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.merchantName(tt.tx))
		})
	}
}

func TestOFXFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "download.qfx")
	require.NoError(t, os.WriteFile(path, []byte(checkingOFX), 0o600))

	src := OFXFile{Path: path}
	assert.Equal(t, "ofx", src.Name())

	in, err := src.Fetch(context.Background(), model.DateRange{})
	require.NoError(t, err)
	assert.Len(t, in.Accounts, 1)
	assert.Len(t, in.Transactions, 4)
	require.NotNil(t, in.DateRange)
	assert.Nil(t, in.Statement)
}
