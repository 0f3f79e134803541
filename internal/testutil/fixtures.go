package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Expense builds an expense draft. amount is parsed as a decimal string.
func Expense(category, amount string, date time.Time) model.Draft {
	return model.Draft{
		Type:     model.TypeExpense,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

// Income builds an income draft. amount is parsed as a decimal string.
func Income(category, amount string, date time.Time) model.Draft {
	return model.Draft{
		Type:     model.TypeIncome,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

// June2024 is a month of activity with one entry either side of the month.
// June totals: income 5500, expense 1240.50.
func June2024() []model.Draft {
	return []model.Draft{
		Expense("jedzenie", "55", Day(2024, time.May, 31)),
		Income("wyplata", "5000", Day(2024, time.June, 1)),
		Expense("transport", "10", Day(2024, time.June, 3)),
		Expense("jedzenie", "230.50", Day(2024, time.June, 5)),
		Expense("transport", "15", Day(2024, time.June, 12)),
		Income("premia", "500", Day(2024, time.June, 14)),
		Expense("rozrywka", "85", Day(2024, time.June, 21)),
		Expense("zdrowie", "900", Day(2024, time.June, 28)),
		Income("wyplata", "5000", Day(2024, time.July, 1)),
	}
}
