package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

func TestAddTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	txn, err := store.AddTransaction(ctx, model.Draft{
		Type:     model.TypeExpense,
		Category: "jedzenie",
		Amount:   decimal.RequireFromString("42.50"),
		Date:     date(2024, time.June, 15),
		Note:     "zakupy",
	})
	require.NoError(t, err)

	assert.Equal(t, fixedNow.UnixMilli(), txn.ID)
	assert.Equal(t, fixedNow, txn.CreatedAt)
	assert.Nil(t, txn.ModifiedAt)

	got, ok := store.TransactionByID(ctx, txn.ID)
	require.True(t, ok)
	assert.Equal(t, "jedzenie", got.Category)
	assert.Equal(t, "zakupy", got.Note)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.Equal(t, "42.5", got.Amount.String())
	assert.True(t, got.Date.Equal(date(2024, time.June, 15)))
}

func TestAddTransaction_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft model.Draft
		field string
	}{
		{
			name:  "zero amount",
			draft: draft(model.TypeExpense, "jedzenie", 0, date(2024, time.June, 1)),
			field: "amount",
		},
		{
			name:  "negative amount",
			draft: draft(model.TypeExpense, "jedzenie", -5, date(2024, time.June, 1)),
			field: "amount",
		},
		{
			name:  "unknown type",
			draft: draft("transfer", "jedzenie", 5, date(2024, time.June, 1)),
			field: "type",
		},
		{
			name:  "missing date",
			draft: draft(model.TypeExpense, "jedzenie", 5, time.Time{}),
			field: "date",
		},
		{
			name:  "empty category",
			draft: draft(model.TypeExpense, "  ", 5, date(2024, time.June, 1)),
			field: "category",
		},
		{
			name:  "category of the other type",
			draft: draft(model.TypeExpense, "wyplata", 5, date(2024, time.June, 1)),
			field: "category",
		},
		{
			name:  "unknown category",
			draft: draft(model.TypeIncome, "loteria", 5, date(2024, time.June, 1)),
			field: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := createTestStore(t)

			_, err := store.AddTransaction(ctx, tt.draft)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			assert.Empty(t, store.ListTransactions(ctx, model.Filter{}))
		})
	}
}

func TestAddTransaction_CategoryMatchIgnoresCase(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	_, err := store.AddTransaction(ctx, draft(model.TypeExpense, "Jedzenie", 10, date(2024, time.June, 1)))
	require.NoError(t, err)
}

func TestAddTransaction_SameMillisecondIDsDiffer(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	first, err := store.AddTransaction(ctx, draft(model.TypeExpense, "jedzenie", 10, date(2024, time.June, 1)))
	require.NoError(t, err)
	second, err := store.AddTransaction(ctx, draft(model.TypeExpense, "jedzenie", 20, date(2024, time.June, 1)))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestAddTransaction_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackendWithCapacity(700)
	store, err := Open(ctx, backend,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(quietLogger()))
	require.NoError(t, err)

	var lastErr error
	added := 0
	for i := 0; i < 20; i++ {
		_, lastErr = store.AddTransaction(ctx, draft(model.TypeExpense, "jedzenie", 10, date(2024, time.June, 1)))
		if lastErr != nil {
			break
		}
		added++
	}

	require.Error(t, lastErr)
	assert.ErrorIs(t, lastErr, common.ErrStorage)
	assert.ErrorIs(t, lastErr, storage.ErrQuotaExceeded)
	assert.Len(t, store.ListTransactions(ctx, model.Filter{}), added)
}

func TestNextID(t *testing.T) {
	existing := []model.Transaction{{ID: 100}, {ID: 250}, {ID: 180}}

	assert.Equal(t, int64(1000), nextID(existing, 1000))
	assert.Equal(t, int64(251), nextID(existing, 200))
	assert.Equal(t, int64(251), nextID(existing, 250))
	assert.Equal(t, int64(7), nextID(nil, 7))
}

func TestListTransactions_SortedByDateDescending(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	dates := []time.Time{
		date(2024, time.June, 3),
		date(2024, time.June, 10),
		date(2024, time.May, 28),
		date(2024, time.June, 10),
	}
	var ids []int64
	for _, d := range dates {
		txn, err := store.AddTransaction(ctx, draft(model.TypeExpense, "transport", 5, d))
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	got := store.ListTransactions(ctx, model.Filter{})
	require.Len(t, got, 4)
	assert.Equal(t, []int64{ids[1], ids[3], ids[0], ids[2]}, []int64{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}

func TestListTransactions_Filters(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	for _, d := range []model.Draft{
		draft(model.TypeExpense, "jedzenie", 10, date(2024, time.May, 31)),
		draft(model.TypeExpense, "transport", 15, date(2024, time.June, 1)),
		draft(model.TypeIncome, "wyplata", 100, date(2024, time.June, 15)),
		draft(model.TypeExpense, "jedzenie", 20, date(2024, time.June, 30)),
		draft(model.TypeExpense, "jedzenie", 30, date(2024, time.July, 1)),
	} {
		_, err := store.AddTransaction(ctx, d)
		require.NoError(t, err)
	}

	from := date(2024, time.June, 1)
	to := date(2024, time.June, 30)

	tests := []struct {
		name   string
		filter model.Filter
		want   int
	}{
		{name: "no filter", filter: model.Filter{}, want: 5},
		{name: "type", filter: model.Filter{Type: model.TypeIncome}, want: 1},
		{name: "category", filter: model.Filter{Category: "jedzenie"}, want: 3},
		{name: "inclusive date range", filter: model.Filter{DateFrom: &from, DateTo: &to}, want: 3},
		{name: "june 2024", filter: model.ForMonth(time.June, 2024), want: 3},
		{name: "month without year is ignored", filter: model.Filter{Month: time.June}, want: 5},
		{
			name:   "combined",
			filter: model.Filter{Type: model.TypeExpense, Category: "jedzenie", Month: time.June, Year: 2024},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, store.ListTransactions(ctx, tt.filter), tt.want)
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	txn, err := store.AddTransaction(ctx, draft(model.TypeExpense, "zdrowie", 80, date(2024, time.June, 4)))
	require.NoError(t, err)

	assert.True(t, store.DeleteTransaction(ctx, txn.ID))
	_, ok := store.TransactionByID(ctx, txn.ID)
	assert.False(t, ok)

	assert.False(t, store.DeleteTransaction(ctx, txn.ID), "second delete is a no-op")
}

func TestDeleteAllTransactions_KeepsCategories(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	added, err := store.AddCategory(ctx, model.TypeExpense, "kino")
	require.NoError(t, err)
	require.True(t, added)
	for i := 0; i < 3; i++ {
		_, err := store.AddTransaction(ctx, draft(model.TypeExpense, "kino", 25, date(2024, time.June, 5)))
		require.NoError(t, err)
	}

	assert.True(t, store.DeleteAllTransactions(ctx))
	assert.Empty(t, store.ListTransactions(ctx, model.Filter{}))
	assert.Contains(t, store.Categories(ctx).Expense, "kino")
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	txn, err := store.AddTransaction(ctx, draft(model.TypeExpense, "jedzenie", 10, date(2024, time.June, 4)))
	require.NoError(t, err)

	category := "transport"
	amount := decimal.RequireFromString("12.30")
	updated, err := store.UpdateTransaction(ctx, txn.ID, model.Patch{Category: &category, Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, txn.ID, updated.ID)
	assert.Equal(t, "transport", updated.Category)
	assert.Equal(t, "12.3", updated.Amount.String())
	require.NotNil(t, updated.ModifiedAt)
	assert.Equal(t, fixedNow, *updated.ModifiedAt)

	got, ok := store.TransactionByID(ctx, txn.ID)
	require.True(t, ok)
	assert.Equal(t, "transport", got.Category)
}

func TestUpdateTransaction_Errors(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	txn, err := store.AddTransaction(ctx, draft(model.TypeExpense, "jedzenie", 10, date(2024, time.June, 4)))
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		note := "x"
		_, err := store.UpdateTransaction(ctx, 1, model.Patch{Note: &note})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("invalid amount", func(t *testing.T) {
		amount := decimal.NewFromInt(-1)
		_, err := store.UpdateTransaction(ctx, txn.ID, model.Patch{Amount: &amount})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("type change needs matching category", func(t *testing.T) {
		typ := model.TypeIncome
		_, err := store.UpdateTransaction(ctx, txn.ID, model.Patch{Type: &typ})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	got, ok := store.TransactionByID(ctx, txn.ID)
	require.True(t, ok)
	assert.Equal(t, "10", got.Amount.String())
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.Nil(t, got.ModifiedAt)
}

func TestUpdateTransaction_KeepsRemovedCategory(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	txn, err := store.AddTransaction(ctx, draft(model.TypeExpense, "edukacja", 50, date(2024, time.June, 4)))
	require.NoError(t, err)
	require.True(t, store.RemoveCategory(ctx, model.TypeExpense, "edukacja"))

	note := "kurs"
	updated, err := store.UpdateTransaction(ctx, txn.ID, model.Patch{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "edukacja", updated.Category)
	assert.Equal(t, "kurs", updated.Note)
}
