package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayResults prints one table of recorded types per checker, and the
// failure for any checker that did not complete.
func (s *SimpleUI) DisplayResults(results []domain.CheckerResult) error {
	var firstErr error

	for _, res := range results {
		if res.Err != nil {
			s.printf("%s %s: %v\n", color.RedString("FAIL"), res.Checker, res.Err)

			if firstErr == nil {
				firstErr = res.Err
			}

			continue
		}

		s.printf("%s (%d call sites)\n", color.CyanString(res.Checker), len(res.Table))
		s.printf("%s", renderTable(res.Table))
	}

	return firstErr
}

func renderTable(table model.ResultTable) string {
	positions := make([]model.Position, 0, len(table))
	for pos := range table {
		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].File != positions[j].File {
			return positions[i].File < positions[j].File
		}

		return positions[i].Line < positions[j].Line
	})

	var buf bytes.Buffer

	tw := tablewriter.NewWriter(&buf)
	tw.SetHeader([]string{"Position", "Expression", "Type"})
	tw.SetBorder(false)
	tw.SetCenterSeparator("")
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, pos := range positions {
		rec := table[pos]
		tw.Append([]string{pos.String(), rec.Var, rec.Type})
	}

	tw.SetFooter([]string{fmt.Sprintf("Total %d", len(positions)), "", ""})
	tw.Render()

	return buf.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
