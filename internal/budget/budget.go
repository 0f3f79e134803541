// Package budget compares monthly spending with the configured limit and
// decides when the user should be reminded about it.
package budget

import (
	"github.com/shopspring/decimal"
)

// Level classifies how much of the limit has been spent.
type Level int

const (
	// LevelOK is below every alert threshold.
	LevelOK Level = iota
	// LevelInfo is at or above 75% of the limit.
	LevelInfo
	// LevelWarning is at or above 90% of the limit.
	LevelWarning
	// LevelExceeded is at or above the limit.
	LevelExceeded
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelExceeded:
		return "exceeded"
	default:
		return "ok"
	}
}

var (
	infoPercent     = decimal.NewFromInt(75)
	warningPercent  = decimal.NewFromInt(90)
	exceededPercent = decimal.NewFromInt(100)
)

// Status is the spending position against a limit.
type Status struct {
	Spent     decimal.Decimal
	Limit     decimal.Decimal
	Remaining decimal.Decimal
	Percent   decimal.Decimal
	Level     Level
}

// Evaluate computes the status of spent against limit. A non-positive limit
// yields a zero percentage and LevelOK.
func Evaluate(spent, limit decimal.Decimal) Status {
	status := Status{
		Spent:     spent,
		Limit:     limit,
		Remaining: limit.Sub(spent),
		Percent:   decimal.Zero,
	}
	if !limit.IsPositive() {
		return status
	}

	percent := spent.Mul(decimal.NewFromInt(100)).Div(limit)
	switch {
	case percent.GreaterThanOrEqual(exceededPercent):
		status.Level = LevelExceeded
	case percent.GreaterThanOrEqual(warningPercent):
		status.Level = LevelWarning
	case percent.GreaterThanOrEqual(infoPercent):
		status.Level = LevelInfo
	}
	status.Percent = percent
	return status
}

// Fraction returns the spent share of the limit clamped to [0, 1], for
// progress displays.
func (s Status) Fraction() float64 {
	f := s.Percent.Div(decimal.NewFromInt(100)).InexactFloat64()
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
