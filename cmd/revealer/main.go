// Command revealer runs the reveal analyzer over Go packages or files and
// prints its diagnostics, one JSON record per line with -json. This is the
// line-delimited checker format the revealer adapter consumes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/mouse-blink/reveal/internal/analyzer"
	"github.com/mouse-blink/reveal/internal/model"
)

var (
	jsonFlag   = flag.Bool("json", false, "emit line-delimited JSON diagnostic records")
	configFlag = flag.String("config", "", "configuration file (empty string disables config discovery)")
)

func main() {
	flag.Parse()

	if err := validateConfig(*configFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	records, err := check(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	exit := 0

	for _, rec := range records {
		if rec.Severity == model.SeverityError {
			exit = 1
		}

		if *jsonFlag {
			line, err := json.Marshal(rec)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			fmt.Println(string(line))
		} else {
			fmt.Printf("%s:%d: %s: %s\n", rec.File, rec.Line, rec.Severity, rec.Message)
		}
	}

	os.Exit(exit)
}

// validateConfig mirrors the adapter contract: -config= (empty) disables
// config discovery, otherwise the file must exist.
func validateConfig(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %q not found", path)
	}

	return nil
}

func check(args []string) ([]model.Diagnostic, error) {
	patterns := make([]string, 0, len(args))

	for _, arg := range args {
		if strings.HasSuffix(arg, ".go") {
			patterns = append(patterns, "file="+arg)
		} else {
			patterns = append(patterns, arg)
		}
	}

	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports |
			packages.NeedDeps,
		Tests: true,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var records []model.Diagnostic

	seen := make(map[model.Diagnostic]struct{})

	emit := func(rec model.Diagnostic) {
		if _, dup := seen[rec]; dup {
			return
		}

		seen[rec] = struct{}{}
		records = append(records, rec)
	}

	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			emit(packageError(perr))
		}

		if len(pkg.Errors) > 0 || pkg.TypesInfo == nil {
			continue
		}

		diags, err := runAnalyzer(pkg)
		if err != nil {
			return nil, err
		}

		for _, d := range diags {
			pos := pkg.Fset.Position(d.Pos)
			emit(model.Diagnostic{
				File:     pos.Filename,
				Line:     pos.Line,
				Severity: model.SeverityNote,
				Message:  d.Message,
			})
		}
	}

	return records, nil
}

// runAnalyzer drives the analyzer over one loaded package, providing the
// inspector result it normally receives from the analysis framework.
func runAnalyzer(pkg *packages.Package) ([]analysis.Diagnostic, error) {
	var diags []analysis.Diagnostic

	pass := &analysis.Pass{
		Analyzer:  analyzer.Analyzer,
		Fset:      pkg.Fset,
		Files:     pkg.Syntax,
		Pkg:       pkg.Types,
		TypesInfo: pkg.TypesInfo,
		ResultOf: map[*analysis.Analyzer]any{
			inspect.Analyzer: inspector.New(pkg.Syntax),
		},
		Report: func(d analysis.Diagnostic) {
			diags = append(diags, d)
		},
	}

	if _, err := analyzer.Analyzer.Run(pass); err != nil {
		return nil, fmt.Errorf("analyzer failed on %s: %w", pkg.PkgPath, err)
	}

	return diags, nil
}

// packageError converts a packages.Error, whose position is a
// "file:line:col" string, into a diagnostic record.
func packageError(perr packages.Error) model.Diagnostic {
	rec := model.Diagnostic{Severity: model.SeverityError, Message: perr.Msg}

	parts := strings.SplitN(perr.Pos, ":", 3)
	if len(parts) >= 2 {
		rec.File = parts[0]

		var line int
		if _, err := fmt.Sscanf(parts[1], "%d", &line); err == nil {
			rec.Line = line
		}
	}

	return rec
}
