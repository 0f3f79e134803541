package cli

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// DefaultCategoryIcon is shown for categories without a dedicated icon.
const DefaultCategoryIcon = "💰"

type categoryLabel struct {
	name string
	icon string
}

var categoryLabels = map[string]categoryLabel{
	"jedzenie":    {name: "Jedzenie", icon: "🍔"},
	"transport":   {name: "Transport", icon: "🚗"},
	"rozrywka":    {name: "Rozrywka", icon: "🎬"},
	"zdrowie":     {name: "Zdrowie", icon: "⚕️"},
	"edukacja":    {name: "Edukacja", icon: "📚"},
	"inne":        {name: "Inne", icon: "📦"},
	"wyplata":     {name: "Wypłata", icon: "💼"},
	"premia":      {name: "Premia", icon: "🎁"},
	"inwestycje":  {name: "Inwestycje", icon: "📈"},
	"inne-dochod": {name: "Inne", icon: "📦"},
}

// CategoryName returns the display name of a category. User-defined
// categories are shown with their first letter capitalized.
func CategoryName(category string) string {
	if label, ok := categoryLabels[strings.ToLower(category)]; ok {
		return label.name
	}
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}

// CategoryIcon returns the emoji shown next to a category.
func CategoryIcon(category string) string {
	if label, ok := categoryLabels[strings.ToLower(category)]; ok {
		return label.icon
	}
	return DefaultCategoryIcon
}

// CategoryLabel returns icon and display name together.
func CategoryLabel(category string) string {
	return CategoryIcon(category) + " " + CategoryName(category)
}

// TypeLabel returns the display name of a transaction type.
func TypeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Dochód"
	}
	return "Wydatek"
}
