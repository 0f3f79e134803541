// Package themes defines the dashboard color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	RoundedBox    lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	Name          string
	Primary       lipgloss.Color
	GradientStart string
	GradientEnd   string
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

func build(name string, fg, muted, border, primary, income, expense, warning, info lipgloss.Color) Theme {
	return Theme{
		Name:          name,
		Primary:       primary,
		Muted:         muted,
		Border:        border,
		Foreground:    fg,
		GradientStart: string(income),
		GradientEnd:   string(expense),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Income: lipgloss.NewStyle().
			Foreground(income).
			Bold(true),
		Expense: lipgloss.NewStyle().
			Foreground(expense).
			Bold(true),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(income).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(expense).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
	}
}

// Light is used when dark mode is off.
var Light = build("light",
	lipgloss.Color("#1f2937"), // foreground
	lipgloss.Color("#6b7280"), // muted
	lipgloss.Color("#d1d5db"), // border
	lipgloss.Color("#2563eb"), // primary
	lipgloss.Color("#059669"), // income
	lipgloss.Color("#dc2626"), // expense
	lipgloss.Color("#d97706"), // warning
	lipgloss.Color("#2563eb"), // info
)

// Dark is used when dark mode is on.
var Dark = build("dark",
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#3b82f6"),
)

// For returns the theme matching the dark mode preference.
func For(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}
