package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"github.com/mouse-blink/reveal/internal/model"
	"github.com/mouse-blink/reveal/internal/resolve"
)

const revealerTool = "revealer"

// revealerDiag is one line of `revealer -json` output. The format is a
// versioned contract: line-delimited JSON records with 1-based lines,
// pinned by the fixture tests in this package.
type revealerDiag struct {
	File     string         `json:"file"`
	Line     int64          `json:"line"`
	Column   int64          `json:"column"`
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
}

var revealerTypeMesg = regexp.MustCompile(`^Revealed type is "(.+?)"$`)

// localMarker matches the "Name@97" suffix revealer appends to types
// declared inside function scope. It is normalized to "Name % 97" so the
// expression parses; the resolver discards the suffix.
var localMarker = regexp.MustCompile(`@(\d+)`)

// Revealer adapts the revealer tool, which prints line-delimited JSON
// diagnostics on stdout and plain text on stderr. Its reveal messages never
// include a variable name; the engine backfills one from the call site.
type Revealer struct {
	runner   CommandRunner
	table    model.ResultTable
	cache    *resolve.Cache
	config   string
	noConfig bool
}

// RevealerOption configures a Revealer.
type RevealerOption func(*Revealer)

// WithRevealerConfig points the tool at a config file.
func WithRevealerConfig(path string) RevealerOption {
	return func(a *Revealer) { a.config = path }
}

// WithRevealerNoConfig forces the tool to run without any config file,
// suppressing its default config discovery.
func WithRevealerNoConfig() RevealerOption {
	return func(a *Revealer) { a.noConfig = true }
}

// NewRevealer constructs the revealer adapter.
func NewRevealer(runner CommandRunner, opts ...RevealerOption) *Revealer {
	a := &Revealer{
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
func (a *Revealer) ID() string { return revealerTool }

// Table returns the adapter's result table.
func (a *Revealer) Table() model.ResultTable { return a.table }

// RunTypecheckerOn invokes revealer over the given files and parses its
// stream. Records are staged and committed only when the whole stream is
// informational, so an error-severity diagnostic leaves the table empty.
func (a *Revealer) RunTypecheckerOn(ctx context.Context, files []string) error {
	args := []string{"-json"}

	switch {
	case a.noConfig:
		args = append(args, "-config=")
	case a.config != "":
		args = append(args, "-config="+a.config)
	}

	args = append(args, files...)

	stdout, stderr, exitCode, err := a.runner.Run(ctx, revealerTool, args...)
	if err != nil {
		return &model.InvocationError{Checker: a.ID(), Reason: "failed to invoke checker", Err: err}
	}

	// revealer reports its own fatal errors as plain text on stderr.
	if len(bytes.TrimSpace(stderr)) > 0 {
		return &model.InvocationError{Checker: a.ID(), Reason: strings.TrimSpace(string(stderr))}
	}

	staged := make(model.ResultTable)

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var diag revealerDiag
		if err := json.Unmarshal([]byte(line), &diag); err != nil {
			return &model.InvocationError{Checker: a.ID(), Reason: "malformed output record", Err: err}
		}

		lineno, err := safecast.Conv[int](diag.Line)
		if err != nil {
			return &model.InvocationError{Checker: a.ID(), Reason: "malformed line number", Err: err}
		}

		if diag.Severity != model.SeverityNote {
			return &model.DiagnosticError{
				Checker: a.ID(),
				Message: fmt.Sprintf("revealer %s with exit code %d: %s", diag.Severity, exitCode, diag.Message),
				File:    diag.File,
				Line:    lineno,
			}
		}

		m := revealerTypeMesg.FindStringSubmatch(diag.Message)
		if m == nil {
			continue
		}

		pos := model.NewPosition(diag.File, lineno)
		staged[pos] = &model.TypeRecord{Type: a.Sanitize(m[1])}
	}

	if err := scanner.Err(); err != nil {
		return &model.InvocationError{Checker: a.ID(), Reason: "unreadable output stream", Err: err}
	}

	for pos, rec := range staged {
		a.table[pos] = rec
	}

	return nil
}

// Sanitize strips the markers revealer injects into partially inferred
// types: "?" and "=" anywhere, "*" only in suffix position so pointer types
// survive, and "@line" local-type markers normalized to "% line".
func (a *Revealer) Sanitize(text string) string {
	text = localMarker.ReplaceAllString(text, " % $1")

	var b strings.Builder

	b.Grow(len(text))

	prev := rune(0)

	for _, r := range text {
		switch r {
		case '?', '=':
			continue
		case '*':
			if isSuffixAnchor(prev) {
				continue
			}
		}

		b.WriteRune(r)
		prev = r
	}

	return b.String()
}

func isSuffixAnchor(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == ']', r == ')':
		return true
	default:
		return false
	}
}

// NewResolver returns the resolver for revealer type text: dotted static
// paths may not exist at runtime (fall back to the bare trailing name), and
// function-local types carry a line marker.
func (a *Revealer) NewResolver(scope *resolve.Scope) *resolve.Resolver {
	return resolve.New(scope, a.cache, resolve.Config{
		DottedFallback: true,
		LocalMarkers:   true,
	})
}
