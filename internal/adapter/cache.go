package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mouse-blink/reveal/internal/model"
)

// Bump when the payload format changes; stale cache files are ignored.
const tableCacheSchema uint16 = 1

// TableCache persists adapter result tables on disk so the standalone CLI
// can redisplay a previous checker run without re-invoking the tools. Keys
// combine the checker id with a hash over the input files' contents.
type TableCache struct {
	dir string
}

type tablePayload struct {
	Schema    uint16
	Checker   string
	InputHash string
	Entries   []tableEntry
}

type tableEntry struct {
	File string
	Line int
	Var  string
	Type string
}

// OpenTableCache initializes a cache directory, creating it if needed.
func OpenTableCache(dir string) (*TableCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	return &TableCache{dir: dir}, nil
}

func (c *TableCache) pathFor(checker, inputHash string) string {
	return filepath.Join(c.dir, checker+"-"+inputHash+".mp")
}

// Put serializes a result table. The payload is written to a temp file and
// renamed so readers never observe a partial write.
func (c *TableCache) Put(checker, inputHash string, table model.ResultTable) error {
	payload := tablePayload{
		Schema:    tableCacheSchema,
		Checker:   checker,
		InputHash: inputHash,
	}

	for pos, rec := range table {
		payload.Entries = append(payload.Entries, tableEntry{
			File: pos.File,
			Line: pos.Line,
			Var:  rec.Var,
			Type: rec.Type,
		})
	}

	sort.Slice(payload.Entries, func(i, j int) bool {
		a, b := payload.Entries[i], payload.Entries[j]
		if a.File != b.File {
			return a.File < b.File
		}

		return a.Line < b.Line
	})

	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	path := c.pathFor(checker, inputHash)

	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Get loads a previously stored table. A missing file or a payload with a
// different schema version is a cache miss, not an error.
func (c *TableCache) Get(checker, inputHash string) (model.ResultTable, bool, error) {
	data, err := os.ReadFile(c.pathFor(checker, inputHash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, err
	}

	var payload tablePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache payload: %w", err)
	}

	if payload.Schema != tableCacheSchema || payload.Checker != checker || payload.InputHash != inputHash {
		return nil, false, nil
	}

	table := make(model.ResultTable, len(payload.Entries))
	for _, e := range payload.Entries {
		table[model.Position{File: e.File, Line: e.Line}] = &model.TypeRecord{Var: e.Var, Type: e.Type}
	}

	return table, true, nil
}

// HashFiles returns a stable fingerprint over the contents of the given
// files, independent of argument order.
func HashFiles(paths []string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := sha256.New()

	for _, path := range sorted {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}

		_, _ = io.WriteString(h, path)

		if _, err := io.Copy(h, f); err != nil {
			_ = f.Close()
			return "", err
		}

		if err := f.Close(); err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
