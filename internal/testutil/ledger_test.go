package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

func TestSetupTestLedger_SeedsFixture(t *testing.T) {
	l := SetupTestLedger(t, WithTransactions(June2024()...))

	all := l.Store.ListTransactions(context.Background(), model.Filter{})
	assert.Len(t, all, len(June2024()))

	june := l.Store.ListTransactions(context.Background(), model.ForMonth(time.June, 2024))
	assert.Len(t, june, 7)
	assert.Equal(t, DefaultNow.Add(time.Duration(len(June2024()))*time.Millisecond), l.Clock.Now())
}

func TestSetupTestLedger_ExtraCategory(t *testing.T) {
	l := SetupTestLedger(t,
		WithCategory(model.TypeExpense, "kino"),
		WithTransactions(Expense("kino", "30", Day(2024, time.June, 2))))

	assert.Contains(t, l.Store.Categories(context.Background()).Expense, "kino")
	assert.Len(t, l.Store.ListTransactions(context.Background(), model.Filter{Category: "kino"}), 1)
}

func TestSetupTestLedger_SQLite(t *testing.T) {
	l := SetupTestLedger(t, WithSQLite())
	_, ok := l.Backend.(*storage.SQLiteBackend)
	require.True(t, ok)

	txn := l.MustAdd(Income("premia", "100", Day(2024, time.June, 2)))
	got, found := l.Store.TransactionByID(context.Background(), txn.ID)
	require.True(t, found)
	assert.Equal(t, "100", got.Amount.String())
}

func TestSetupTestLedger_Capacity(t *testing.T) {
	l := SetupTestLedger(t, WithCapacity(600))

	var err error
	for i := 0; i < 10 && err == nil; i++ {
		_, err = l.Store.AddTransaction(context.Background(), Expense("inne", "1", Day(2024, time.June, 2)))
	}
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestClock(t *testing.T) {
	c := NewClock(DefaultNow)
	c.Advance(time.Hour)
	assert.Equal(t, DefaultNow.Add(time.Hour), c.Now())
}
