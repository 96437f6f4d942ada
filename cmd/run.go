package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/reveal/internal/controller"
	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/model"
)

var runOutputFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run the checkers and collect their result tables",
		Long: `Run invokes every enabled checker over the directory's test files and
prints the recorded call-site types. With --output the results are also
written to a YAML report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, err := buildWorkflow()
			if err != nil {
				return err
			}

			results, runErr := workflow.Run(cmd.Context(), domain.RunArgs{
				Dir:      argDir(args),
				Exclude:  excludeFlags,
				CacheDir: cacheDirFlag,
				UseCache: !noCacheFlag,
			})
			if results == nil {
				return runErr
			}

			if runOutputFlag != "" {
				if err := writeReport(runOutputFlag, results); err != nil {
					return err
				}
			}

			ui := controller.NewSimpleUI(cmd)

			return ui.DisplayResults(results)
		},
	}
	cmd.Flags().StringVarP(&runOutputFlag, "output", "o", "", "write a YAML report to the given file")

	return cmd
}

type reportEntry struct {
	File string `yaml:"file"`
	Line int    `yaml:"line"`
	Var  string `yaml:"var,omitempty"`
	Type string `yaml:"type"`
}

type reportChecker struct {
	Checker string        `yaml:"checker"`
	Error   string        `yaml:"error,omitempty"`
	Entries []reportEntry `yaml:"entries,omitempty"`
}

func writeReport(path string, results []domain.CheckerResult) error {
	report := make([]reportChecker, 0, len(results))

	for _, res := range results {
		rc := reportChecker{Checker: res.Checker}
		if res.Err != nil {
			rc.Error = res.Err.Error()
		}

		for _, pos := range sortedPositions(res.Table) {
			rec := res.Table[pos]
			rc.Entries = append(rc.Entries, reportEntry{
				File: pos.File,
				Line: pos.Line,
				Var:  rec.Var,
				Type: rec.Type,
			})
		}

		report = append(report, rc)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func sortedPositions(table model.ResultTable) []model.Position {
	positions := make([]model.Position, 0, len(table))
	for pos := range table {
		positions = append(positions, pos)
	}

	sortPositions(positions)

	return positions
}

func init() {
	rootCmd.AddCommand(runCmd)
}
