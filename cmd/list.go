package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/controller"
	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "Redisplay the cached result tables of a previous run",
		Long: `List shows the result tables a previous run stored in the cache without
re-invoking any checker. A checker with no cached table for the current
file contents is reported as a miss.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := cachedResults(argDir(args))
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)

			return ui.DisplayResults(results)
		},
	}

	return cmd
}

// cachedResults resolves the current input hash and loads each enabled
// checker's table from the cache.
func cachedResults(dir string) ([]domain.CheckerResult, error) {
	adapters, err := buildAdapters()
	if err != nil {
		return nil, err
	}

	files, err := domain.DiscoverTestFiles(dir, excludeFlags)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no test files found in %s", dir)
	}

	cache, err := adapter.OpenTableCache(cacheDirFlag)
	if err != nil {
		return nil, err
	}

	inputHash, err := adapter.HashFiles(files)
	if err != nil {
		return nil, err
	}

	results := make([]domain.CheckerResult, 0, len(adapters))

	for _, a := range adapters {
		res := domain.CheckerResult{Checker: a.ID()}

		table, hit, err := cache.Get(a.ID(), inputHash)
		if err != nil {
			return nil, err
		}

		if hit {
			res.Table = table
		} else {
			res.Err = fmt.Errorf("no cached run for the current file contents")
		}

		results = append(results, res)
	}

	return results, nil
}

func sortPositions(positions []model.Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].File != positions[j].File {
			return positions[i].File < positions[j].File
		}

		return positions[i].Line < positions[j].Line
	})
}

func init() {
	rootCmd.AddCommand(listCmd)
}
