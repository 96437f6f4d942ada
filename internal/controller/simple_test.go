package controller

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	return cmd, buf
}

func sampleResults() []domain.CheckerResult {
	return []domain.CheckerResult{
		{
			Checker: "gotype",
			Table: model.ResultTable{
				model.NewPosition("feature_test.go", 10): {Var: "total", Type: "int"},
				model.NewPosition("feature_test.go", 15): {Var: "records", Type: "[]store.Record"},
			},
		},
	}
}

func TestSimpleUI_DisplayResults_RendersTable(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	err := ui.DisplayResults(sampleResults())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "gotype")
	assert.Contains(t, out, "feature_test.go:10")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "[]store.Record")
	assert.Contains(t, out, "Total 2")
}

func TestSimpleUI_DisplayResults_ReportsFailure(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	results := []domain.CheckerResult{
		{Checker: "revealer", Err: errors.New("cannot load config")},
	}

	err := ui.DisplayResults(results)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "revealer")
	assert.Contains(t, buf.String(), "cannot load config")
}

func TestSimpleUI_DisplayResults_MixedOutcomes(t *testing.T) {
	cmd, buf := newTestCmd()
	ui := NewSimpleUI(cmd)

	results := append(sampleResults(), domain.CheckerResult{
		Checker: "revealer",
		Err:     errors.New("boom"),
	})

	err := ui.DisplayResults(results)
	require.Error(t, err, "any checker failure surfaces as the return value")
	assert.Contains(t, buf.String(), "feature_test.go:10", "completed tables still render")
}

func TestNewUI_FactorySelection(t *testing.T) {
	cmd, _ := newTestCmd()

	_, isSimple := NewUI(cmd, false).(*SimpleUI)
	assert.True(t, isSimple)

	_, isTUI := NewUI(cmd, true).(*TUI)
	assert.True(t, isTUI)
}

func TestIsTTY_NonFileWriter(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
