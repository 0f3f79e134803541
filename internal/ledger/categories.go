package ledger

import (
	"context"

	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// AddCategory registers name for the given type. It returns false without an
// error when a case-insensitive duplicate already exists, and a validation
// error when the name is malformed. The name is stored with its original casing.
//
// Removing a category never touches existing transactions: they keep the label
// they were recorded with.
func (s *Store) AddCategory(ctx context.Context, t model.TransactionType, name string) (bool, error) {
	if err := model.ValidateCategoryName(name); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	if !db.Categories.Add(t, name) {
		s.logger.Info("category already exists", "type", t.Key(), "name", name)
		return false, nil
	}
	if !s.saveLocked(ctx, db) {
		return false, nil
	}

	s.logger.Info("category added", "type", t.Key(), "name", name)
	return true, nil
}

// RemoveCategory removes the exact (case-sensitive) name from the list for
// the given type. It reports false when the name is not registered.
func (s *Store) RemoveCategory(ctx context.Context, t model.TransactionType, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked(ctx)
	if !db.Categories.Remove(t, name) {
		return false
	}
	if !s.saveLocked(ctx, db) {
		return false
	}

	s.logger.Info("category removed", "type", t.Key(), "name", name)
	return true
}

// Categories returns the active category lists.
func (s *Store) Categories(ctx context.Context) model.CategorySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx).Categories.Clone()
}
