package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

func TestCategorySet_AddIsCaseInsensitive(t *testing.T) {
	set := CategorySet{}

	assert.True(t, set.Add(TypeExpense, "Jedzenie"))
	assert.False(t, set.Add(TypeExpense, "jedzenie"))
	assert.False(t, set.Add(TypeExpense, "  JEDZENIE "))
	assert.Equal(t, []string{"Jedzenie"}, set.Expense)

	// Lists are independent per type.
	assert.True(t, set.Add(TypeIncome, "jedzenie"))
	assert.Equal(t, []string{"jedzenie"}, set.Income)
}

func TestCategorySet_RemoveIsExact(t *testing.T) {
	set := DefaultCategories()

	assert.False(t, set.Remove(TypeExpense, "Transport"))
	assert.True(t, set.Remove(TypeExpense, "transport"))
	assert.False(t, set.Contains(TypeExpense, "transport"))
	assert.Equal(t, []string{"jedzenie", "rozrywka", "zdrowie", "edukacja", "inne"}, set.Expense)
}

func TestCategorySet_CloneIsIndependent(t *testing.T) {
	set := DefaultCategories()
	clone := set.Clone()
	clone.Add(TypeIncome, "zwrot")

	assert.Len(t, set.Income, 4)
	assert.Len(t, clone.Income, 5)
}

func TestValidateCategoryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "kino"},
		{name: "two characters", input: "tv"},
		{name: "exactly thirty", input: strings.Repeat("a", 30)},
		{name: "polish letters count as runes", input: "żł"},
		{name: "digits with letters", input: "4x4"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "single character", input: "a", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 31), wantErr: true},
		{name: "digits only", input: "2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategoryName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
