package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition_KeepsBasenameOnly(t *testing.T) {
	pos := NewPosition("/home/dev/project/feature_test.go", 42)

	assert.Equal(t, "feature_test.go", pos.File)
	assert.Equal(t, 42, pos.Line)
}

func TestNewPosition_EqualAcrossPathSpellings(t *testing.T) {
	fromChecker := NewPosition("pkg/feature_test.go", 7)
	fromRuntime := NewPosition("/abs/path/to/pkg/feature_test.go", 7)

	assert.Equal(t, fromChecker, fromRuntime)
}

func TestPosition_String(t *testing.T) {
	pos := NewPosition("feature_test.go", 13)

	assert.Equal(t, "feature_test.go:13", pos.String())
}

func TestSeverity_Informational(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityNote, true},
		{SeverityInformation, true},
		{SeverityWarning, false},
		{SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.Informational())
		})
	}
}

func TestResolutionError_NamesBothForms(t *testing.T) {
	err := &ResolutionError{Dotted: "pkg.Thing", Bare: "Thing"}

	require.EqualError(t, err, `cannot resolve "pkg.Thing" or "Thing"`)
}

func TestResolutionError_BareOnly(t *testing.T) {
	err := &ResolutionError{Bare: "Thing"}

	require.EqualError(t, err, `cannot resolve "Thing"`)
}

func TestMismatchError_AttributesChecker(t *testing.T) {
	inner := &ResolutionError{Bare: "Thing"}
	err := &MismatchError{Checker: "gotype", Err: inner}

	assert.Equal(t, `(gotype) cannot resolve "Thing"`, err.Error())
	assert.ErrorIs(t, err, error(inner))
}

func TestNameMismatchError_Message(t *testing.T) {
	err := &NameMismatchError{
		Checker: "gotype",
		Pos:     NewPosition("feature_test.go", 9),
		Want:    "total",
		Got:     "count",
	}

	assert.Equal(t,
		`gotype at feature_test.go:9: variable name should be "total", but got "count"`,
		err.Error())
}
