package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

// Category name length bounds, counted in runes after trimming.
const (
	MinCategoryNameLength = 2
	MaxCategoryNameLength = 30
)

// CategorySet holds the active category names for each transaction type.
// Names are unique case-insensitively within each list; order is insertion order.
type CategorySet struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
}

// DefaultCategories returns the categories seeded into a fresh store.
func DefaultCategories() CategorySet {
	return CategorySet{
		Expense: []string{"jedzenie", "transport", "rozrywka", "zdrowie", "edukacja", "inne"},
		Income:  []string{"wyplata", "premia", "inwestycje", "inne-dochod"},
	}
}

// List returns the names registered for the given type.
func (c CategorySet) List(t TransactionType) []string {
	if t == TypeIncome {
		return c.Income
	}
	return c.Expense
}

// Contains reports whether name is registered for t, ignoring case.
func (c CategorySet) Contains(t TransactionType, name string) bool {
	return c.indexFold(t, name) >= 0
}

// Add appends name to the list for t unless a case-insensitive duplicate exists.
// The original casing of name is kept.
func (c *CategorySet) Add(t TransactionType, name string) bool {
	name = strings.TrimSpace(name)
	if c.indexFold(t, name) >= 0 {
		return false
	}
	if t == TypeIncome {
		c.Income = append(c.Income, name)
	} else {
		c.Expense = append(c.Expense, name)
	}
	return true
}

// Remove deletes the exact (case-sensitive) name from the list for t.
func (c *CategorySet) Remove(t TransactionType, name string) bool {
	list := c.List(t)
	for i, existing := range list {
		if existing != name {
			continue
		}
		next := make([]string, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if t == TypeIncome {
			c.Income = next
		} else {
			c.Expense = next
		}
		return true
	}
	return false
}

// Clone returns a deep copy of the set.
func (c CategorySet) Clone() CategorySet {
	return CategorySet{
		Expense: append([]string(nil), c.Expense...),
		Income:  append([]string(nil), c.Income...),
	}
}

func (c CategorySet) indexFold(t TransactionType, name string) int {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, existing := range c.List(t) {
		if strings.ToLower(existing) == normalized {
			return i
		}
	}
	return -1
}

// ValidateCategoryName checks a user-supplied category name.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.NewValidationError("category", "name cannot be empty")
	}

	length := utf8.RuneCountInString(name)
	if length < MinCategoryNameLength {
		return common.NewValidationError("category", "name must have at least 2 characters")
	}
	if length > MaxCategoryNameLength {
		return common.NewValidationError("category", "name cannot be longer than 30 characters")
	}

	digitsOnly := true
	for _, r := range name {
		if !unicode.IsDigit(r) {
			digitsOnly = false
			break
		}
	}
	if digitsOnly {
		return common.NewValidationError("category", "name cannot consist of digits only")
	}
	return nil
}
