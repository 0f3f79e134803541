package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
)

// maxShares caps the category breakdown so the layout fits a small terminal.
const maxShares = 6

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.theme.Subtitle.Render("Loading...")
	}

	sections := []string{
		m.renderHeader(),
		m.renderOverview(),
		m.renderBudget(),
		m.renderRecent(),
		m.renderBreakdown(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("%s %s %d", cli.MoneyIcon, m.data.month, m.data.year)
	subtitle := fmt.Sprintf("%d transactions", m.data.totalCount)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(title),
		m.theme.Subtitle.Render(subtitle),
	)
}

func (m Model) renderOverview() string {
	currency := m.data.settings.CurrencyCode
	o := m.data.overview

	balance := m.theme.Income
	if o.Balance.IsNegative() {
		balance = m.theme.Expense
	}

	cell := func(label, value string, style lipgloss.Style) string {
		return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Subtitle.Render(label),
			style.Render(value),
		))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(cli.IncomeIcon+" Income", cli.FormatAmount(o.Income, currency), m.theme.Income),
		cell(cli.ExpenseIcon+" Expense", cli.FormatAmount(o.Expense, currency), m.theme.Expense),
		cell("Balance", cli.FormatAmount(o.Balance, currency), balance),
	)
}

func (m Model) renderBudget() string {
	s := m.data.status
	currency := m.data.settings.CurrencyCode

	var style lipgloss.Style
	switch s.Level {
	case budget.LevelExceeded:
		style = m.theme.StatusError
	case budget.LevelWarning:
		style = m.theme.StatusWarning
	case budget.LevelInfo:
		style = m.theme.StatusInfo
	default:
		style = m.theme.StatusSuccess
	}

	line := fmt.Sprintf("%s / %s (%s%%)",
		cli.FormatAmount(s.Spent, currency),
		cli.FormatAmount(s.Limit, currency),
		s.Percent.StringFixed(0))

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.theme.Bold.Render("Budget"),
		m.progress.ViewAs(s.Fraction())+" "+style.Render(line),
		"",
	)
}

func (m Model) renderRecent() string {
	if len(m.data.recent) == 0 {
		return m.theme.Subtitle.Render("No transactions this month.") + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Recent transactions"),
		m.table.View(),
		"",
	)
}

func (m Model) renderBreakdown() string {
	if len(m.data.shares) == 0 {
		return ""
	}
	currency := m.data.settings.CurrencyCode

	shares := m.data.shares
	if len(shares) > maxShares {
		shares = shares[:maxShares]
	}

	var b strings.Builder
	b.WriteString(m.theme.Bold.Render(cli.ChartIcon + " Expenses by category"))
	b.WriteString("\n")
	for _, s := range shares {
		pct, _ := s.Percent.Float64()
		bar := strings.Repeat("█", int(pct/5))
		fmt.Fprintf(&b, "%-24s %s %s %s\n",
			cli.CategoryLabel(s.Category),
			m.theme.Expense.Render(fmt.Sprintf("%-20s", bar)),
			s.Percent.StringFixed(1)+"%",
			m.theme.Subtitle.Render(cli.FormatAmount(s.Amount, currency)))
	}
	return b.String()
}
