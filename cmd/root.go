// Package cmd provides the root command and CLI setup for reveal.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/config"
	"github.com/mouse-blink/reveal/internal/controller"
	"github.com/mouse-blink/reveal/internal/domain"
)

var (
	rootFlag           string
	configFlag         string
	revealerConfigFlag string
	gotypeConfigFlag   string
	disableFlags       []string
	excludeFlags       []string
	cacheDirFlag       string
	noCacheFlag        bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal [dir]",
		Short: "Cross-validate static checker types against runtime observations",
		Long: `Reveal runs the configured type checkers over a package's test files and
collects the inferred type they report at every reveal.Type call site.

Without a subcommand it runs the checkers and prints their result tables;
use 'view' for an interactive browser or 'list' to redisplay a cached run.`,
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

			ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))

			return ui.DisplayResults(results)
		},
	}

	cmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "project root for resolving checker config paths")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to reveal.toml (default: <root>/reveal.toml)")
	cmd.PersistentFlags().StringVar(&revealerConfigFlag, "revealer-config", "", "config file for the revealer checker")
	cmd.PersistentFlags().StringVar(&gotypeConfigFlag, "gotype-config", "", "project config file for the gotype checker")
	cmd.PersistentFlags().StringArrayVar(&disableFlags, "disable", nil, "disable a checker by id (can be repeated)")
	cmd.PersistentFlags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude test files matching regex (can be repeated)")
	cmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", ".reveal-cache", "directory for cached checker result tables")
	cmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "always re-invoke the checkers")

	return cmd
}

func argDir(args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	return "."
}

// buildWorkflow assembles the checker adapters from flags and reveal.toml,
// in the fixed verification order.
func buildWorkflow() (domain.Workflow, error) {
	adapters, err := buildAdapters()
	if err != nil {
		return nil, err
	}

	return domain.NewWorkflow(adapters...), nil
}

func buildAdapters() ([]adapter.Adapter, error) {
	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = filepath.Join(rootFlag, config.DefaultFile)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	disabled := map[string]bool{}
	for _, id := range disableFlags {
		disabled[id] = true
	}

	for id, section := range cfg.Checkers {
		if section.Disable {
			disabled[id] = true
		}
	}

	runner := adapter.NewExecRunner()

	var adapters []adapter.Adapter

	if !disabled["gotype"] {
		opts, err := gotypeOptions(cfg)
		if err != nil {
			return nil, err
		}

		adapters = append(adapters, adapter.NewGotype(runner, opts...))
	}

	if !disabled["revealer"] {
		opts, err := revealerOptions(cfg)
		if err != nil {
			return nil, err
		}

		adapters = append(adapters, adapter.NewRevealer(runner, opts...))
	}

	return adapters, nil
}

func gotypeOptions(cfg *config.Config) ([]adapter.GotypeOption, error) {
	path := gotypeConfigFlag
	if path == "" && cfg.ExplicitConfig("gotype") {
		path = cfg.Checkers["gotype"].Config
	}

	if path == "" {
		return nil, nil
	}

	resolved, err := config.ResolvePath(rootFlag, path)
	if err != nil {
		return nil, err
	}

	return []adapter.GotypeOption{adapter.WithGotypeConfig(resolved)}, nil
}

func revealerOptions(cfg *config.Config) ([]adapter.RevealerOption, error) {
	path := revealerConfigFlag
	if path == "" && cfg.ExplicitConfig("revealer") {
		path = cfg.Checkers["revealer"].Config
		if path == "" {
			return []adapter.RevealerOption{adapter.WithRevealerNoConfig()}, nil
		}
	}

	if path == "" {
		return nil, nil
	}

	resolved, err := config.ResolvePath(rootFlag, path)
	if err != nil {
		return nil, err
	}

	return []adapter.RevealerOption{adapter.WithRevealerConfig(resolved)}, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
