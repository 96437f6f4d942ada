package domain

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/model"
	"github.com/mouse-blink/reveal/internal/resolve"
)

// fakeAdapter serves a canned result table and records invocations. Its
// resolver config is selectable so both checker behaviors are coverable.
type fakeAdapter struct {
	id      string
	table   model.ResultTable
	cfg     resolve.Config
	cache   *resolve.Cache
	runErr  error
	ranWith [][]string
}

func newFakeAdapter(id string, table model.ResultTable) *fakeAdapter {
	return &fakeAdapter{
		id:    id,
		table: table,
		cache: resolve.NewCache(),
	}
}

func (a *fakeAdapter) ID() string { return a.id }

func (a *fakeAdapter) RunTypecheckerOn(_ context.Context, files []string) error {
	a.ranWith = append(a.ranWith, files)
	return a.runErr
}

func (a *fakeAdapter) Table() model.ResultTable { return a.table }

func (a *fakeAdapter) Sanitize(text string) string { return text }

func (a *fakeAdapter) NewResolver(scope *resolve.Scope) *resolve.Resolver {
	return resolve.New(scope, a.cache, a.cfg)
}

type record struct {
	ID int
}

type box[T any] struct {
	Value T
}

type duo[A, B any] struct {
	Left  A
	Right B
}

// callSite writes a source file whose third line holds a reveal call of
// exprText, returning the path and line.
func callSite(t *testing.T, exprText string) (string, int) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "engine_case_test.go")
	content := "package p\n\nout := reveal.Type(" + exprText + ")\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path, 3
}

func sessionWith(adapters ...adapter.Adapter) *Session {
	return NewSession(adapters, nil)
}

func TestVerifyAt_Match(t *testing.T) {
	path, line := callSite(t, "count")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "count", Type: "int"},
	})

	err := sessionWith(a).VerifyAt(42, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_MatchesObservedNamedType(t *testing.T) {
	path, line := callSite(t, "rec")

	// "record" resolves only through the observed value's own type.
	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "rec", Type: "record"},
	})

	err := sessionWith(a).VerifyAt(record{ID: 1}, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_NoInferredType(t *testing.T) {
	path, line := callSite(t, "count")

	a := newFakeAdapter("gotype", model.ResultTable{})

	err := sessionWith(a).VerifyAt(42, path, line)
	require.Error(t, err)

	var noType *model.NoInferredTypeError
	require.ErrorAs(t, err, &noType)
	assert.Equal(t, "gotype", noType.Checker)
}

func TestVerifyAt_NameMismatch(t *testing.T) {
	path, line := callSite(t, "count")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "total", Type: "int"},
	})

	err := sessionWith(a).VerifyAt(42, path, line)
	require.Error(t, err)

	var mismatch *model.NameMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "total", mismatch.Want)
	assert.Equal(t, "count", mismatch.Got)
}

func TestVerifyAt_BackfillsVarName(t *testing.T) {
	path, line := callSite(t, "count")

	rec := &model.TypeRecord{Type: "int"}
	a := newFakeAdapter("revealer", model.ResultTable{
		model.NewPosition(path, line): rec,
	})
	a.cfg = resolve.Config{DottedFallback: true, LocalMarkers: true}

	err := sessionWith(a).VerifyAt(42, path, line)
	require.NoError(t, err)
	assert.Equal(t, "count", rec.Var, "empty variable names are backfilled from the call site")
}

func TestVerifyAt_TypeMismatchNamesChecker(t *testing.T) {
	path, line := callSite(t, "count")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "count", Type: "string"},
	})

	err := sessionWith(a).VerifyAt(42, path, line)
	require.Error(t, err)

	var mismatch *model.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "gotype", mismatch.Checker)
}

func TestVerifyAt_DottedFallbackResolves(t *testing.T) {
	path, line := callSite(t, "rec")

	a := newFakeAdapter("revealer", model.ResultTable{
		model.NewPosition(path, line): {Type: "some.static.path.record"},
	})
	a.cfg = resolve.Config{DottedFallback: true, LocalMarkers: true}

	err := sessionWith(a).VerifyAt(record{ID: 2}, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_LocalMarkerDiscarded(t *testing.T) {
	path, line := callSite(t, "rec")

	// Sanitized form of "record@97".
	a := newFakeAdapter("revealer", model.ResultTable{
		model.NewPosition(path, line): {Type: "record % 97"},
	})
	a.cfg = resolve.Config{DottedFallback: true, LocalMarkers: true}

	err := sessionWith(a).VerifyAt(record{ID: 3}, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_LiveInstantiationMatchesDirectly(t *testing.T) {
	path, line := callSite(t, "b")

	// The observed value binds its own instantiated name, so the
	// subscripted spelling resolves to a live type with no retry.
	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "b", Type: "box[int]"},
	})

	err := sessionWith(a).VerifyAt(box[int]{Value: 1}, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_ParameterizedRetriesOnBase(t *testing.T) {
	path, line := callSite(t, "d")

	// The checker's spelling has a space the runtime name lacks, so the
	// subscript cannot resolve to a live type; the engine concedes to the
	// unparameterized base, which the observed value binds itself.
	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "d", Type: "duo[int, string]"},
	})

	err := sessionWith(a).VerifyAt(duo[int, string]{Left: 1, Right: "r"}, path, line)
	require.NoError(t, err)
}

func TestVerifyAt_ParameterizedRetryStillChecksBase(t *testing.T) {
	path, line := callSite(t, "b")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "b", Type: "container[int]"},
	})

	// The base resolves to record, which the value is not.
	s := sessionWith(a)
	s.Scope().Bind("container", reflect.TypeOf(record{}))

	err := s.VerifyAt(box[int]{Value: 1}, path, line)
	require.Error(t, err)

	var mismatch *model.MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestVerifyAt_NestedParameterizedNotRetried(t *testing.T) {
	path, line := callSite(t, "b")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "b", Type: "box[box[int]]"},
	})

	err := sessionWith(a).VerifyAt(box[box[int]]{}, path, line)
	require.Error(t, err)

	var mismatch *model.MismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestVerifyAt_AllAdaptersMustAgree(t *testing.T) {
	path, line := callSite(t, "count")
	pos := model.NewPosition(path, line)

	first := newFakeAdapter("gotype", model.ResultTable{
		pos: {Var: "count", Type: "int"},
	})
	second := newFakeAdapter("revealer", model.ResultTable{
		pos: {Type: "string"},
	})
	second.cfg = resolve.Config{DottedFallback: true, LocalMarkers: true}

	err := sessionWith(first, second).VerifyAt(42, path, line)
	require.Error(t, err)

	var mismatch *model.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "revealer", mismatch.Checker)
}

func TestVerifyAt_SessionRegistrationsVisible(t *testing.T) {
	path, line := callSite(t, "d")

	a := newFakeAdapter("gotype", model.ResultTable{
		model.NewPosition(path, line): {Var: "d", Type: "Millis"},
	})

	s := sessionWith(a)
	s.Scope().Bind("Millis", reflect.TypeOf(time.Duration(0)))

	err := s.VerifyAt(time.Duration(5), path, line)
	require.NoError(t, err)
}

func TestRunCheckers_SequentialFixedOrder(t *testing.T) {
	var order []string

	first := newFakeAdapter("gotype", model.ResultTable{})
	second := newFakeAdapter("revealer", model.ResultTable{})

	s := sessionWith(
		&orderedAdapter{fakeAdapter: first, order: &order},
		&orderedAdapter{fakeAdapter: second, order: &order},
	)

	err := s.RunCheckers(context.Background(), []string{"a_test.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gotype", "revealer"}, order)
}

func TestRunCheckers_FirstFailureAborts(t *testing.T) {
	var order []string

	first := newFakeAdapter("gotype", model.ResultTable{})
	first.runErr = &model.InvocationError{Checker: "gotype", Reason: "boom"}
	second := newFakeAdapter("revealer", model.ResultTable{})

	s := sessionWith(
		&orderedAdapter{fakeAdapter: first, order: &order},
		&orderedAdapter{fakeAdapter: second, order: &order},
	)

	err := s.RunCheckers(context.Background(), []string{"a_test.go"})
	require.Error(t, err)
	assert.Equal(t, []string{"gotype"}, order, "the second checker never runs")
}

func TestRunCheckers_EmptyFileSet(t *testing.T) {
	s := sessionWith(newFakeAdapter("gotype", model.ResultTable{}))

	err := s.RunCheckers(context.Background(), nil)
	require.Error(t, err)
}

// orderedAdapter records the order checkers are invoked in.
type orderedAdapter struct {
	*fakeAdapter
	order *[]string
}

func (a *orderedAdapter) RunTypecheckerOn(ctx context.Context, files []string) error {
	*a.order = append(*a.order, a.id)
	return a.fakeAdapter.RunTypecheckerOn(ctx, files)
}
