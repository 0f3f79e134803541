// Package tui implements the interactive monthly dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/stats"
	"github.com/Veraticus/finansowy-tracker/internal/tui/themes"
)

// RecentLimit is the number of transactions listed on the dashboard.
const RecentLimit = 10

// Ledger is the part of the store the dashboard reads.
type Ledger interface {
	ListTransactions(ctx context.Context, filter model.Filter) []model.Transaction
	Settings(ctx context.Context) model.Settings
}

// Config holds TUI configuration.
type Config struct {
	Ledger     Ledger
	Now        func() time.Time
	DateLayout string
	Width      int
	Height     int
}

// dashboardData is everything one render of a month needs.
type dashboardData struct {
	settings   model.Settings
	overview   stats.Summary
	status     budget.Status
	shares     []stats.Share
	recent     []model.Transaction
	month      time.Month
	year       int
	totalCount int
}

type dataLoadedMsg struct {
	data dashboardData
}

// Model holds the dashboard state.
type Model struct {
	ctx        context.Context
	ledger     Ledger
	aggregator *stats.Aggregator
	now        func() time.Time
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	table      table.Model
	progress   progress.Model
	data       dashboardData
	dateLayout string
	month      time.Month
	year       int
	width      int
	height     int
	ready      bool
	darkTheme  bool
	quitting   bool
}

// New creates a dashboard model showing the current month.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = stats.DefaultDayLayout
	}
	if cfg.Width == 0 {
		cfg.Width = 80
	}
	if cfg.Height == 0 {
		cfg.Height = 24
	}

	now := cfg.Now().UTC()
	m := Model{
		ctx:        ctx,
		ledger:     cfg.Ledger,
		aggregator: stats.New(cfg.Ledger, stats.WithDayLayout(cfg.DateLayout)),
		now:        cfg.Now,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		progress:   progress.New(progress.WithWidth(40), progress.WithoutPercentage()),
		dateLayout: cfg.DateLayout,
		month:      now.Month(),
		year:       now.Year(),
		width:      cfg.Width,
		height:     cfg.Height,
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(RecentLimit),
	)
	m.applyTheme(themes.For(false))
	return m
}

// Init loads the data of the current month.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, ledger, aggregator := m.ctx, m.ledger, m.aggregator
	month, year := m.month, m.year
	return func() tea.Msg {
		filter := model.ForMonth(month, year)
		settings := ledger.Settings(ctx)
		overview := aggregator.MonthlyOverview(ctx, month, year)

		transactions := ledger.ListTransactions(ctx, filter)
		recent := transactions
		if len(recent) > RecentLimit {
			recent = recent[:RecentLimit]
		}

		expenseFilter := filter
		expenseFilter.Type = model.TypeExpense

		return dataLoadedMsg{data: dashboardData{
			settings:   settings,
			overview:   overview,
			status:     budget.Evaluate(overview.Expense, settings.BudgetLimit),
			shares:     stats.Shares(aggregator.ByCategory(ctx, expenseFilter)),
			recent:     recent,
			month:      month,
			year:       year,
			totalCount: len(transactions),
		}}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(m.columns())
		return m, nil

	case dataLoadedMsg:
		if !m.ready || msg.data.settings.DarkTheme != m.data.settings.DarkTheme {
			m.darkTheme = msg.data.settings.DarkTheme
			m.applyTheme(themes.For(m.darkTheme))
		}
		m.data = msg.data
		m.ready = true
		m.table.SetRows(m.rows())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.PrevMonth):
			m.shiftMonth(-1)
			return m, m.load()
		case key.Matches(msg, m.keymap.NextMonth):
			m.shiftMonth(1)
			return m, m.load()
		case key.Matches(msg, m.keymap.ThisMonth):
			now := m.now().UTC()
			m.month, m.year = now.Month(), now.Year()
			return m, m.load()
		case key.Matches(msg, m.keymap.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keymap.ToggleTheme):
			m.darkTheme = !m.darkTheme
			m.applyTheme(themes.For(m.darkTheme))
			return m, nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) shiftMonth(delta int) {
	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.month, m.year = first.Month(), first.Year()
}

func (m *Model) applyTheme(theme themes.Theme) {
	m.theme = theme
	m.progress = progress.New(
		progress.WithGradient(theme.GradientStart, theme.GradientEnd),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	styles := table.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	m.table.SetStyles(styles)
}

func (m Model) columns() []table.Column {
	noteWidth := m.width - 12 - 22 - 16 - 10
	if noteWidth < 10 {
		noteWidth = 10
	}
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 22},
		{Title: "Amount", Width: 16},
		{Title: "Note", Width: noteWidth},
	}
}

func (m Model) rows() []table.Row {
	currency := m.data.settings.CurrencyCode
	rows := make([]table.Row, 0, len(m.data.recent))
	for _, t := range m.data.recent {
		sign := "-"
		if t.Type == model.TypeIncome {
			sign = "+"
		}
		rows = append(rows, table.Row{
			t.Date.UTC().Format(m.dateLayout),
			cli.CategoryLabel(t.Category),
			sign + cli.FormatAmount(t.Amount, currency),
			t.Note,
		})
	}
	return rows
}
