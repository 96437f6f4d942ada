package adapter

import (
	"context"

	"github.com/mouse-blink/reveal/internal/model"
	"github.com/mouse-blink/reveal/internal/resolve"
)

// Adapter is one external static checker: it knows how to invoke the tool,
// how to parse its diagnostic stream into a position-indexed result table,
// and which quirks of its type-text syntax the resolver must rewrite.
//
// RunTypecheckerOn is called exactly once per session, before any test body
// executes. The result table is read-only afterwards, apart from the
// variable-name backfill performed by the verification engine.
type Adapter interface {
	ID() string

	// RunTypecheckerOn invokes the external checker over the given files
	// and populates the result table. Any error- or warning-severity
	// diagnostic aborts with *model.DiagnosticError and commits nothing.
	RunTypecheckerOn(ctx context.Context, files []string) error

	// Table returns the adapter's result table.
	Table() model.ResultTable

	// Sanitize strips checker-specific decoration characters from raw
	// type text so the remainder parses as a valid type expression.
	// Sanitizing is idempotent.
	Sanitize(text string) string

	// NewResolver returns a name resolver configured with this checker's
	// rewrite rules, backed by the adapter's session-lifetime memo cache.
	NewResolver(scope *resolve.Scope) *resolve.Resolver
}
