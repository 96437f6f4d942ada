package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/reveal/internal/model"
)

func writeSource(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feature_test.go")

	var content string
	for _, l := range lines {
		content += l + "\n"
	}

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRecoverExpr_QualifiedCall(t *testing.T) {
	path := writeSource(t,
		"package p",
		"",
		`total := reveal.Type(sum(a, b))`,
	)

	c := newSourceCache()

	expr, err := c.recoverExpr(path, 3)
	require.NoError(t, err)
	assert.Equal(t, "sum(a, b)", expr)
}

func TestRecoverExpr_BareCall(t *testing.T) {
	path := writeSource(t,
		`out := Type(records[0])`,
	)

	c := newSourceCache()

	expr, err := c.recoverExpr(path, 1)
	require.NoError(t, err)
	assert.Equal(t, "records[0]", expr)
}

func TestRecoverExpr_PreservesExactArgumentText(t *testing.T) {
	path := writeSource(t,
		`v := reveal.Type(map[string][]int{"a": {1}})`,
	)

	c := newSourceCache()

	expr, err := c.recoverExpr(path, 1)
	require.NoError(t, err)
	assert.Equal(t, `map[string][]int{"a": {1}}`, expr)
}

func TestRecoverExpr_UnknownQualifierIgnored(t *testing.T) {
	path := writeSource(t,
		`v := other.Type(x)`,
	)

	c := newSourceCache()

	_, err := c.recoverExpr(path, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCallSite)
}

func TestRecoverExpr_NoCallOnLine(t *testing.T) {
	path := writeSource(t,
		"x := 1 + 2",
	)

	c := newSourceCache()

	_, err := c.recoverExpr(path, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCallSite)
}

func TestRecoverExpr_LineOutOfRange(t *testing.T) {
	path := writeSource(t, "x := 1")

	c := newSourceCache()

	_, err := c.recoverExpr(path, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCallSite)
}

func TestRecoverExpr_MissingFile(t *testing.T) {
	c := newSourceCache()

	_, err := c.recoverExpr(filepath.Join(t.TempDir(), "gone_test.go"), 1)
	require.Error(t, err)
}

func TestRecoverExpr_WrongArity(t *testing.T) {
	path := writeSource(t,
		`v := reveal.Type(a, b)`,
	)

	c := newSourceCache()

	_, err := c.recoverExpr(path, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCallSite)
}
