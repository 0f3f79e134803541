// Package model defines the records persisted by the ledger.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

func init() {
	// Persisted records carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeExpense marks money spent.
	TypeExpense TransactionType = "wydatek"
	// TypeIncome marks money received.
	TypeIncome TransactionType = "dochód"
)

// ParseTransactionType accepts the persisted values as well as their English names.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TypeExpense), "expense":
		return TypeExpense, nil
	case string(TypeIncome), "income":
		return TypeIncome, nil
	default:
		return "", common.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", s))
	}
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Key returns the category-list key for the type ("expense" or "income").
func (t TransactionType) Key() string {
	if t == TypeIncome {
		return "income"
	}
	return "expense"
}

// Transaction is a single income or expense entry in the ledger.
type Transaction struct {
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"createdAt"`
	ModifiedAt *time.Time      `json:"modifiedAt,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
	Category   string          `json:"category"`
	Note       string          `json:"note"`
	ID         int64           `json:"id"`
}

// Draft carries the user-supplied fields of a transaction before it is created.
type Draft struct {
	Date     time.Time
	Amount   decimal.Decimal
	Type     TransactionType
	Category string
	Note     string
}

// NewTransaction validates a draft and builds the transaction it describes.
// The date is normalized to UTC; id and timestamps come from the caller.
func NewTransaction(id int64, d Draft, now time.Time) (Transaction, error) {
	if err := d.Validate(); err != nil {
		return Transaction{}, err
	}

	return Transaction{
		ID:        id,
		Type:      d.Type,
		Category:  strings.TrimSpace(d.Category),
		Amount:    d.Amount,
		Date:      d.Date.UTC(),
		Note:      d.Note,
		CreatedAt: now.UTC(),
	}, nil
}

// Validate checks the draft against the transaction field constraints.
func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return common.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", d.Type))
	}
	if strings.TrimSpace(d.Category) == "" {
		return common.NewValidationError("category", "cannot be empty")
	}
	if err := validateAmount(d.Amount); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return common.NewValidationError("date", "cannot be empty")
	}
	return nil
}

// ParseAmount parses a decimal amount, accepting a comma as decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, common.NewValidationError("amount", fmt.Sprintf("%q is not a number", s))
	}
	if err := validateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than 0")
	}
	return nil
}

// Patch lists the fields of a transaction to replace. Nil fields are kept.
type Patch struct {
	Type     *TransactionType
	Category *string
	Amount   *decimal.Decimal
	Date     *time.Time
	Note     *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Type == nil && p.Category == nil && p.Amount == nil && p.Date == nil && p.Note == nil
}

// Apply merges the patch into t and refreshes ModifiedAt. The result is
// validated as a whole before t is touched.
func (p Patch) Apply(t *Transaction, now time.Time) error {
	next := *t
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Category != nil {
		next.Category = strings.TrimSpace(*p.Category)
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.Date != nil {
		next.Date = p.Date.UTC()
	}
	if p.Note != nil {
		next.Note = *p.Note
	}

	draft := Draft{Type: next.Type, Category: next.Category, Amount: next.Amount, Date: next.Date}
	if err := draft.Validate(); err != nil {
		return err
	}

	modified := now.UTC()
	next.ModifiedAt = &modified
	*t = next
	return nil
}
