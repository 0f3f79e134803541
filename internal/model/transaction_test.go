package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

var testNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Type:     TypeExpense,
		Category: "jedzenie",
		Amount:   decimal.NewFromFloat(42.5),
		Date:     time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC),
		Note:     "lunch",
	}
}

func TestNewTransaction(t *testing.T) {
	warsaw := time.FixedZone("CEST", 2*60*60)

	draft := validDraft()
	draft.Date = time.Date(2024, time.June, 9, 1, 0, 0, 0, warsaw)
	draft.Category = "  jedzenie "

	txn, err := NewTransaction(7, draft, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(7), txn.ID)
	assert.Equal(t, TypeExpense, txn.Type)
	assert.Equal(t, "jedzenie", txn.Category)
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(42.5)))
	assert.Equal(t, time.UTC, txn.Date.Location())
	assert.Equal(t, time.Date(2024, time.June, 8, 23, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, testNow, txn.CreatedAt)
	assert.Nil(t, txn.ModifiedAt)
}

func TestNewTransaction_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Draft)
		field  string
	}{
		{name: "zero amount", modify: func(d *Draft) { d.Amount = decimal.Zero }, field: "amount"},
		{name: "negative amount", modify: func(d *Draft) { d.Amount = decimal.NewFromInt(-5) }, field: "amount"},
		{name: "unknown type", modify: func(d *Draft) { d.Type = "transfer" }, field: "type"},
		{name: "empty category", modify: func(d *Draft) { d.Category = "   " }, field: "category"},
		{name: "missing date", modify: func(d *Draft) { d.Date = time.Time{} }, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.modify(&draft)

			_, err := NewTransaction(1, draft, testNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.34", want: "12.34"},
		{input: "12,34", want: "12.34"},
		{input: " 100 ", want: "100"},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	for input, want := range map[string]TransactionType{
		"wydatek": TypeExpense,
		"expense": TypeExpense,
		"Income":  TypeIncome,
		"dochód":  TypeIncome,
	} {
		got, err := ParseTransactionType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseTransactionType("loan")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPatchApply(t *testing.T) {
	txn, err := NewTransaction(1, validDraft(), testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	amount := decimal.NewFromInt(99)
	note := "dinner"

	require.NoError(t, Patch{Amount: &amount, Note: &note}.Apply(&txn, later))
	assert.True(t, txn.Amount.Equal(amount))
	assert.Equal(t, "dinner", txn.Note)
	assert.Equal(t, "jedzenie", txn.Category)
	require.NotNil(t, txn.ModifiedAt)
	assert.Equal(t, later, *txn.ModifiedAt)
}

func TestPatchApply_RejectsInvalidAndKeepsRecord(t *testing.T) {
	txn, err := NewTransaction(1, validDraft(), testNow)
	require.NoError(t, err)
	before := txn

	zero := decimal.Zero
	err = Patch{Amount: &zero}.Apply(&txn, testNow)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, before, txn)
}

func TestTransactionJSON(t *testing.T) {
	txn, err := NewTransaction(1718000000000, validDraft(), testNow)
	require.NoError(t, err)

	data, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":42.5`)
	assert.Contains(t, string(data), `"type":"wydatek"`)
	assert.NotContains(t, string(data), "modifiedAt")

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Amount.Equal(txn.Amount))
	assert.Equal(t, txn.Date, decoded.Date)
}
