package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}

	return names
}

func TestDiscoverTestFiles_TestFilesOnly(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"feature.go":      "package p\n",
		"feature_test.go": "package p\n",
		"helper_test.go":  "package p\n",
		"notes.md":        "notes\n",
	})

	files, err := DiscoverTestFiles(dir, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"feature_test.go", "helper_test.go"}, baseNames(files))
}

func TestDiscoverTestFiles_ExcludePatterns(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"feature_test.go":     "package p\n",
		"integration_test.go": "package p\n",
	})

	files, err := DiscoverTestFiles(dir, []string{"^integration"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"feature_test.go"}, baseNames(files))
}

func TestDiscoverTestFiles_InvalidExcludePattern(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a_test.go": "package p\n"})

	_, err := DiscoverTestFiles(dir, []string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestDiscoverTestFiles_SkipDirective(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"checked_test.go": "package p\n",
		"skipped_test.go": "//reveal:skip-file\npackage p\n",
	})

	files, err := DiscoverTestFiles(dir, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"checked_test.go"}, baseNames(files))
}

func TestDiscoverTestFiles_MissingDir(t *testing.T) {
	_, err := DiscoverTestFiles(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
}

func TestDiscoverTestFiles_IgnoresSubdirectories(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a_test.go": "package p\n"})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested_test.go.d"), 0o755))

	files, err := DiscoverTestFiles(dir, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
