// Package stats derives read-only figures from the transaction log. Every
// call re-reads the ledger, so results always reflect the persisted state.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// DefaultDayLayout renders day keys the way pl-PL dates are written.
const DefaultDayLayout = "02.01.2006"

// Places is the number of decimal places aggregates are rounded to.
const Places = 2

// TransactionLister is the part of the ledger the aggregator reads from.
type TransactionLister interface {
	ListTransactions(ctx context.Context, filter model.Filter) []model.Transaction
}

// Summary totals income and expense over a set of transactions.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryStat is the total of one category.
type CategoryStat struct {
	Amount   decimal.Decimal       `json:"amount"`
	Category string                `json:"category"`
	Type     model.TransactionType `json:"type"`
	Count    int                   `json:"count"`
}

// DayStat is the income and expense recorded on one calendar day.
type DayStat struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Date    string          `json:"date"`
}

// Share is a category's portion of a total, in percent.
type Share struct {
	CategoryStat
	Percent decimal.Decimal `json:"percent"`
}

// Aggregator computes statistics over a ledger.
type Aggregator struct {
	source    TransactionLister
	logger    *slog.Logger
	dayLayout string
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithDayLayout sets the time layout used for ByDay keys.
func WithDayLayout(layout string) Option {
	return func(a *Aggregator) {
		if layout != "" {
			a.dayLayout = layout
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an aggregator reading from source.
func New(source TransactionLister, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:    source,
		logger:    slog.Default(),
		dayLayout: DefaultDayLayout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summary sums income and expense over the matching transactions. The sums
// are rounded once, after accumulation.
func (a *Aggregator) Summary(ctx context.Context, filter model.Filter) Summary {
	return summarize(a.source.ListTransactions(ctx, filter))
}

// MonthlyOverview is Summary restricted to one calendar month.
func (a *Aggregator) MonthlyOverview(ctx context.Context, month time.Month, year int) Summary {
	return a.Summary(ctx, model.ForMonth(month, year))
}

// CurrentMonth is MonthlyOverview for the month containing now.
func (a *Aggregator) CurrentMonth(ctx context.Context, now time.Time) Summary {
	now = now.UTC()
	return a.MonthlyOverview(ctx, now.Month(), now.Year())
}

// ByCategory groups the matching transactions by category name. Groups are
// returned in the order their category was first seen; each group carries
// the type of its first transaction.
func (a *Aggregator) ByCategory(ctx context.Context, filter model.Filter) []CategoryStat {
	transactions := a.source.ListTransactions(ctx, filter)

	index := make(map[string]int)
	groups := make([]CategoryStat, 0)
	for _, t := range transactions {
		i, ok := index[t.Category]
		if !ok {
			i = len(groups)
			index[t.Category] = i
			groups = append(groups, CategoryStat{Category: t.Category, Type: t.Type, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(t.Amount)
		groups[i].Count++
	}

	for i := range groups {
		groups[i].Amount = groups[i].Amount.Round(Places)
	}

	a.logger.Debug("grouped transactions by category", "groups", len(groups), "transactions", len(transactions))
	return groups
}

// ByDay groups the matching transactions by calendar day (UTC), keyed by the
// configured layout. Days are returned in the order they were first seen.
func (a *Aggregator) ByDay(ctx context.Context, filter model.Filter) []DayStat {
	transactions := a.source.ListTransactions(ctx, filter)

	index := make(map[string]int)
	days := make([]DayStat, 0)
	for _, t := range transactions {
		key := t.Date.UTC().Format(a.dayLayout)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DayStat{Date: key, Income: decimal.Zero, Expense: decimal.Zero})
		}
		switch t.Type {
		case model.TypeIncome:
			days[i].Income = days[i].Income.Add(t.Amount)
		case model.TypeExpense:
			days[i].Expense = days[i].Expense.Add(t.Amount)
		}
	}

	for i := range days {
		days[i].Income = days[i].Income.Round(Places)
		days[i].Expense = days[i].Expense.Round(Places)
	}
	return days
}

// Shares returns each group's percentage of the groups' total amount,
// rounded to two places. When the total is zero every share is zero.
func Shares(groups []CategoryStat) []Share {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Amount)
	}

	hundred := decimal.NewFromInt(100)
	shares := make([]Share, len(groups))
	for i, g := range groups {
		percent := decimal.Zero
		if !total.IsZero() {
			percent = g.Amount.Mul(hundred).Div(total).Round(Places)
		}
		shares[i] = Share{CategoryStat: g, Percent: percent}
	}
	return shares
}

func summarize(transactions []model.Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(t.Amount)
		case model.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	// Balance is rounded from the raw difference, not the rounded sums.
	return Summary{
		Income:  income.Round(Places),
		Expense: expense.Round(Places),
		Balance: income.Sub(expense).Round(Places),
	}
}
