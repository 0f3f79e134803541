package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Ledger == nil {
		return fmt.Errorf("ledger is required")
	}

	// Restore the terminal even if the program is killed mid-render.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // reset colors
	}
	defer cleanupTerminal()

	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
