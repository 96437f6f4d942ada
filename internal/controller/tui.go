package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mouse-blink/reveal/internal/domain"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayResults runs the interactive result browser. Checker failures are
// printed before the browser starts so they are visible after it exits.
func (t *TUI) DisplayResults(results []domain.CheckerResult) error {
	var firstErr error

	for _, res := range results {
		if res.Err != nil {
			_, _ = fmt.Fprintf(t.output, "%s failed: %v\n", res.Checker, res.Err)

			if firstErr == nil {
				firstErr = res.Err
			}
		}
	}

	m := newResultModel(results)
	if len(m.items()) == 0 {
		_, _ = fmt.Fprintln(t.output, "No recorded call sites.")

		return firstErr
	}

	p := tea.NewProgram(m, tea.WithOutput(t.output))
	if _, err := p.Run(); err != nil {
		return err
	}

	return firstErr
}
