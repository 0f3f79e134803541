package ofx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
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
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>BIEDRONKA NR 4312
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Lidl Polska
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240128120000[0:GMT]
<TRNAMT>4200.00
<FITID>2024012801
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>0.00
<FITID>2024013101
<NAME>INTEREST
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
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
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
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
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>ALLEGRO.PL*ZAMOWIENIE 88
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>SPOTIFY.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func newTestParser() *Parser {
	return NewParser(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 4,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.ErrorIs(t, err, common.ErrFormat)
			} else {
				require.NoError(t, err)
				assert.Len(t, entries, tt.expectedCount)
			}
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	biedronka := entries[0]
	assert.Equal(t, "2024011501", biedronka.FitID)
	assert.Equal(t, "1234567890", biedronka.Account)
	assert.Equal(t, "USD", biedronka.Currency)
	assert.Equal(t, "DEBIT", biedronka.TrnType)
	assert.Equal(t, model.TypeExpense, biedronka.Draft.Type)
	assert.Equal(t, DefaultExpenseCategory, biedronka.Draft.Category)
	assert.Equal(t, "25.5", biedronka.Draft.Amount.String())
	assert.Equal(t, "BIEDRONKA NR 4312", biedronka.Draft.Note)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), biedronka.Draft.Date)

	lidl := entries[1]
	assert.Equal(t, "Lidl Polska", lidl.Draft.Note)
	assert.Equal(t, "125", lidl.Draft.Amount.String())

	salary := entries[2]
	assert.Equal(t, model.TypeIncome, salary.Draft.Type)
	assert.Equal(t, "wyplata", salary.Draft.Category)
	assert.Equal(t, "4200", salary.Draft.Amount.String())

	check := entries[3]
	assert.Equal(t, "2024012501", check.FitID)
	assert.Equal(t, "CHECK #1234", check.Draft.Note)
	assert.Equal(t, "500", check.Draft.Amount.String())

	for _, e := range entries {
		assert.NoError(t, e.Draft.Validate())
	}
}

func TestParseCreditCardTransactions(t *testing.T) {
	entries, err := newTestParser().ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "CC2024011001", entries[0].FitID)
	assert.Equal(t, "ALLEGRO.PL*ZAMOWIENIE 88", entries[0].Draft.Note)
	assert.Equal(t, "45.99", entries[0].Draft.Amount.String())
	assert.Equal(t, "4111111111111111", entries[0].Account)

	assert.Equal(t, "SPOTIFY.COM", entries[1].Draft.Note)
	assert.Equal(t, "15", entries[1].Draft.Amount.String())
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractPayee(t *testing.T) {
	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE KAWIARNIA SOWA"},
			expected: "KAWIARNIA SOWA",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE LIDL WARSZAWA"},
			expected: "LIDL WARSZAWA",
		},
		{
			name:     "remove card payment prefix",
			tx:       ofxgo.Transaction{Name: "PLATNOSC KARTA BIEDRONKA"},
			expected: "BIEDRONKA",
		},
		{
			name:     "strip leading date",
			tx:       ofxgo.Transaction{Name: "03/14 LIDL"},
			expected: "LIDL",
		},
		{
			name:     "keep clean name",
			tx:       ofxgo.Transaction{Name: "SPOTIFY.COM"},
			expected: "SPOTIFY.COM",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  ALLEGRO.PL  "},
			expected: "ALLEGRO.PL",
		},
		{
			name:     "memo replaces generic name",
			tx:       ofxgo.Transaction{Name: "DEBIT", Memo: "ORLEN STACJA 12"},
			expected: "ORLEN STACJA 12",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "POS 1234", Payee: &ofxgo.Payee{Name: "Żabka"}},
			expected: "Żabka",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPayee(tt.tx))
		})
	}
}

func TestIncomeCategory(t *testing.T) {
	assert.Equal(t, "inwestycje", incomeCategory("INT"))
	assert.Equal(t, "inwestycje", incomeCategory("DIV"))
	assert.Equal(t, "wyplata", incomeCategory("DIRECTDEP"))
	assert.Equal(t, DefaultIncomeCategory, incomeCategory("CREDIT"))
}
