package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const testFileSuffix = "_test.go"

// skipDirective excludes a test file from checker runs when it appears at
// the start of any line, typically next to the build constraints.
const skipDirective = "//reveal:skip-file"

// DiscoverTestFiles returns the Go test files of a package directory, the
// set handed to every checker. Files carrying the skip directive or
// matching an exclude pattern are left out.
func DiscoverTestFiles(dir string, exclude []string) ([]string, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, raw := range exclude {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", raw, err)
		}

		patterns = append(patterns, re)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), testFileSuffix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		if matchesAny(patterns, entry.Name()) || matchesAny(patterns, path) {
			continue
		}

		skip, err := hasSkipDirective(path)
		if err != nil {
			return nil, err
		}

		if !skip {
			files = append(files, path)
		}
	}

	return files, nil
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}

func hasSkipDirective(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), skipDirective) {
			return true, nil
		}
	}

	return false, nil
}
