package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/reveal/internal/model"
)

func resetFlags() {
	rootFlag = "."
	configFlag = ""
	revealerConfigFlag = ""
	gotypeConfigFlag = ""
	disableFlags = nil
	excludeFlags = nil
	cacheDirFlag = ".reveal-cache"
	noCacheFlag = false
}

func TestArgDir(t *testing.T) {
	assert.Equal(t, ".", argDir(nil))
	assert.Equal(t, "pkg", argDir([]string{"pkg"}))
}

func TestBuildAdapters_DefaultPair(t *testing.T) {
	resetFlags()

	t.Cleanup(resetFlags)

	rootFlag = t.TempDir() // no reveal.toml there

	adapters, err := buildAdapters()
	require.NoError(t, err)
	require.Len(t, adapters, 2)

	assert.Equal(t, "gotype", adapters[0].ID(), "gotype verifies first")
	assert.Equal(t, "revealer", adapters[1].ID())
}

func TestBuildAdapters_DisableFlag(t *testing.T) {
	resetFlags()

	t.Cleanup(resetFlags)

	rootFlag = t.TempDir()
	disableFlags = []string{"revealer"}

	adapters, err := buildAdapters()
	require.NoError(t, err)
	require.Len(t, adapters, 1)
	assert.Equal(t, "gotype", adapters[0].ID())
}

func TestBuildAdapters_ConfigDisables(t *testing.T) {
	resetFlags()

	t.Cleanup(resetFlags)

	root := t.TempDir()
	rootFlag = root

	require.NoError(t, os.WriteFile(filepath.Join(root, "reveal.toml"), []byte(`
[checkers.gotype]
disable = true
`), 0o644))

	adapters, err := buildAdapters()
	require.NoError(t, err)
	require.Len(t, adapters, 1)
	assert.Equal(t, "revealer", adapters[0].ID())
}

func TestBuildAdapters_MissingCheckerConfigFails(t *testing.T) {
	resetFlags()

	t.Cleanup(resetFlags)

	rootFlag = t.TempDir()
	gotypeConfigFlag = "nope.toml"

	_, err := buildAdapters()
	require.Error(t, err)
}

func TestSortPositions(t *testing.T) {
	positions := []model.Position{
		{File: "b_test.go", Line: 1},
		{File: "a_test.go", Line: 9},
		{File: "a_test.go", Line: 2},
	}

	sortPositions(positions)

	assert.Equal(t, []model.Position{
		{File: "a_test.go", Line: 2},
		{File: "a_test.go", Line: 9},
		{File: "b_test.go", Line: 1},
	}, positions)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["run"])
	assert.True(t, names["list"])
	assert.True(t, names["view"])
}
