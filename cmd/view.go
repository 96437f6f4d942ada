package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/reveal/internal/controller"
	"github.com/mouse-blink/reveal/internal/domain"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [dir]",
		Short: "Browse checker results interactively",
		Long:  "View runs the checkers (or loads a cached run) and opens an interactive browser over the recorded call sites.",
		Args:  cobra.MaximumNArgs(1),
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

			ui := controller.NewTUI(cmd.OutOrStdout())

			return ui.DisplayResults(results)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
