package model

import "time"

// Filter selects transactions. Every set field is an independent predicate;
// a transaction matches when it satisfies all of them.
type Filter struct {
	DateFrom *time.Time // inclusive
	DateTo   *time.Time // inclusive
	Type     TransactionType
	Category string
	Month    time.Month // applied together with Year only
	Year     int
}

// Matches reports whether t satisfies every predicate of the filter.
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if f.Month != 0 && f.Year != 0 {
		date := t.Date.UTC()
		if date.Month() != f.Month || date.Year() != f.Year {
			return false
		}
	}
	return true
}

// ForMonth returns a filter matching the given calendar month.
func ForMonth(month time.Month, year int) Filter {
	return Filter{Month: month, Year: year}
}
