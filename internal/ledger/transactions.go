package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// AddTransaction validates the draft, appends the resulting transaction to
// the log and persists it. The category must be active for the draft's type.
func (s *Store) AddTransaction(ctx context.Context, draft model.Draft) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	if err := draft.Validate(); err != nil {
		return model.Transaction{}, err
	}
	if !db.Categories.Contains(draft.Type, draft.Category) {
		return model.Transaction{}, common.NewValidationError("category",
			fmt.Sprintf("%q is not a %s category", draft.Category, draft.Type.Key()))
	}

	now := s.now()
	txn, err := model.NewTransaction(nextID(db.Transactions, now.UnixMilli()), draft, now)
	if err != nil {
		return model.Transaction{}, err
	}

	db.Transactions = append(db.Transactions, txn)
	if err := s.writeJSON(ctx, DatabaseKey, db); err != nil {
		s.logger.Error("failed to save transaction", "error", err)
		return model.Transaction{}, err
	}

	s.logger.Info("transaction added",
		"id", txn.ID,
		"type", txn.Type,
		"category", txn.Category,
		"amount", txn.Amount.String())
	return txn, nil
}

// nextID returns a time-derived id that is strictly greater than every
// existing id, so two transactions created in the same millisecond differ.
func nextID(existing []model.Transaction, nowMillis int64) int64 {
	id := nowMillis
	for _, t := range existing {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// ListTransactions returns the transactions matching filter, newest date
// first. Transactions with equal dates keep their log order.
func (s *Store) ListTransactions(ctx context.Context, filter model.Filter) []model.Transaction {
	s.mu.Lock()
	db := s.loadLocked(ctx)
	s.mu.Unlock()

	result := make([]model.Transaction, 0, len(db.Transactions))
	for _, t := range db.Transactions {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}

	slices.SortStableFunc(result, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	s.logger.Debug("listed transactions", "matched", len(result), "total", len(db.Transactions))
	return result
}

// TransactionByID returns the transaction with the given id.
func (s *Store) TransactionByID(ctx context.Context, id int64) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	for _, t := range db.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// DeleteTransaction removes the transaction with the given id. It reports
// whether a transaction was removed and persisted; deleting an unknown id is
// a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	before := len(db.Transactions)
	db.Transactions = slices.DeleteFunc(db.Transactions, func(t model.Transaction) bool {
		return t.ID == id
	})
	if len(db.Transactions) == before {
		s.logger.Debug("transaction not found for delete", "id", id)
		return false
	}

	if !s.saveLocked(ctx, db) {
		return false
	}
	s.logger.Info("transaction deleted", "id", id)
	return true
}

// UpdateTransaction merges patch into the transaction with the given id and
// refreshes its modification time.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, patch model.Patch) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	idx := slices.IndexFunc(db.Transactions, func(t model.Transaction) bool {
		return t.ID == id
	})
	if idx < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	txn := db.Transactions[idx]
	if err := patch.Apply(&txn, s.now()); err != nil {
		return model.Transaction{}, err
	}
	// A kept category may since have been removed; a new one must be active.
	if (patch.Category != nil || patch.Type != nil) && !db.Categories.Contains(txn.Type, txn.Category) {
		return model.Transaction{}, common.NewValidationError("category",
			fmt.Sprintf("%q is not a %s category", txn.Category, txn.Type.Key()))
	}
	db.Transactions[idx] = txn

	if err := s.writeJSON(ctx, DatabaseKey, db); err != nil {
		s.logger.Error("failed to save updated transaction", "id", id, "error", err)
		return model.Transaction{}, err
	}

	s.logger.Info("transaction updated", "id", id)
	return txn, nil
}

// DeleteAllTransactions clears the transaction log. Categories and settings
// are kept.
func (s *Store) DeleteAllTransactions(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	count := len(db.Transactions)
	db.Transactions = []model.Transaction{}
	if !s.saveLocked(ctx, db) {
		return false
	}

	s.logger.Info("all transactions deleted", "count", count)
	return true
}
