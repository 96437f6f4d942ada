package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"github.com/mouse-blink/reveal/internal/model"
	"github.com/mouse-blink/reveal/internal/resolve"
)

const gotypeTool = "gotype"

// gotypeFallback runs the checker through the Go toolchain when no gotype
// executable is on PATH.
var gotypeFallback = []string{"run", "github.com/mouse-blink/gotype@latest"}

// gotypeReport is the single JSON document gotype writes to stdout with
// --outputjson. Line numbers are 0-based; the adapter normalizes them to
// the 1-based runtime frame convention.
type gotypeReport struct {
	GeneralDiagnostics []gotypeDiag `json:"generalDiagnostics"`
}

type gotypeDiag struct {
	File  string `json:"file"`
	Range struct {
		Start struct {
			Line int64 `json:"line"`
		} `json:"start"`
	} `json:"range"`
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
}

var gotypeTypeMesg = regexp.MustCompile(`^Type of "(.+?)" is "(.+?)"$`)

// Gotype adapts the gotype checker. Its reveal messages always carry the
// variable name, which the engine uses to detect call-site collisions.
type Gotype struct {
	runner CommandRunner
	table  model.ResultTable
	cache  *resolve.Cache
	config string
}

// GotypeOption configures a Gotype adapter.
type GotypeOption func(*Gotype)

// WithGotypeConfig points the tool at a project config file.
func WithGotypeConfig(path string) GotypeOption {
	return func(a *Gotype) { a.config = path }
}

// NewGotype constructs the gotype adapter.
func NewGotype(runner CommandRunner, opts ...GotypeOption) *Gotype {
	a := &Gotype{
		runner: runner,
		table:  make(model.ResultTable),
		cache:  resolve.NewCache(),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ID returns the adapter identity used in error attribution.
func (a *Gotype) ID() string { return gotypeTool }

// Table returns the adapter's result table.
func (a *Gotype) Table() model.ResultTable { return a.table }

// RunTypecheckerOn locates and invokes gotype, requests a single JSON
// document on stdout, and populates the result table from its
// informational diagnostics. A nonzero exit triggers a scan for
// error-severity diagnostics before anything is recorded.
func (a *Gotype) RunTypecheckerOn(ctx context.Context, files []string) error {
	name, args, err := a.command()
	if err != nil {
		return err
	}

	args = append(args, "--outputjson")
	if a.config != "" {
		args = append(args, "--project", a.config)
	}

	args = append(args, files...)

	stdout, stderr, exitCode, err := a.runner.Run(ctx, name, args...)
	if err != nil {
		return &model.InvocationError{Checker: a.ID(), Reason: "failed to invoke checker", Err: err}
	}

	if len(bytes.TrimSpace(stderr)) > 0 {
		return &model.InvocationError{Checker: a.ID(), Reason: strings.TrimSpace(string(stderr))}
	}

	var report gotypeReport
	if err := json.Unmarshal(stdout, &report); err != nil {
		return &model.InvocationError{Checker: a.ID(), Reason: "malformed output document", Err: err}
	}

	if exitCode != 0 {
		for _, diag := range report.GeneralDiagnostics {
			if diag.Severity != model.SeverityError {
				continue
			}

			lineno, err := normalizeLine(a.ID(), diag.Range.Start.Line)
			if err != nil {
				return err
			}

			pos := model.NewPosition(diag.File, lineno)

			return &model.DiagnosticError{
				Checker: a.ID(),
				Message: diag.Message,
				File:    pos.File,
				Line:    pos.Line,
			}
		}
	}

	for _, diag := range report.GeneralDiagnostics {
		if diag.Severity != model.SeverityInformation {
			continue
		}

		m := gotypeTypeMesg.FindStringSubmatch(diag.Message)
		if m == nil {
			continue
		}

		lineno, err := normalizeLine(a.ID(), diag.Range.Start.Line)
		if err != nil {
			return err
		}

		pos := model.NewPosition(diag.File, lineno)
		a.table[pos] = &model.TypeRecord{Var: m[1], Type: a.Sanitize(m[2])}
	}

	return nil
}

// command resolves the checker executable, falling back to the documented
// `go run` runner when gotype itself is not installed.
func (a *Gotype) command() (string, []string, error) {
	if _, err := a.runner.LookPath(gotypeTool); err == nil {
		return gotypeTool, nil, nil
	}

	if _, err := a.runner.LookPath("go"); err == nil {
		return "go", append([]string(nil), gotypeFallback...), nil
	}

	return "", nil, &model.InvocationError{
		Checker: a.ID(),
		Reason:  "gotype is required to run the test suite",
	}
}

// normalizeLine converts gotype's 0-based line to the 1-based convention.
func normalizeLine(checker string, raw int64) (int, error) {
	lineno, err := safecast.Conv[int](raw + 1)
	if err != nil {
		return 0, &model.InvocationError{Checker: checker, Reason: "malformed line number", Err: err}
	}

	return lineno, nil
}

// Sanitize is the identity for gotype: its type text carries no decoration
// characters.
func (a *Gotype) Sanitize(text string) string { return text }

// NewResolver returns the resolver for gotype type text: bare names only,
// no rewrite rules.
func (a *Gotype) NewResolver(scope *resolve.Scope) *resolve.Resolver {
	return resolve.New(scope, a.cache, resolve.Config{})
}
