// Package model defines the data structures shared between checker adapters
// and the verification engine.
package model

import (
	"fmt"
	"path/filepath"
)

// Position identifies a reveal call site by file basename and 1-based line.
// Two calls on the same line collide by design; the verification engine
// guards against silent collisions with a variable-name check.
type Position struct {
	File string
	Line int
}

// NewPosition builds a Position from any file path, keeping only the
// basename so checker output paths and runtime frame paths compare equal.
func NewPosition(file string, line int) Position {
	return Position{File: filepath.Base(file), Line: line}
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// TypeRecord is the inferred type a checker reported for one position.
// Var is empty when the checker's message format carries no variable name;
// it is backfilled in place once the call site recovers the expression text.
type TypeRecord struct {
	Var  string
	Type string
}

// ResultTable maps call-site positions to checker-inferred types. Each
// adapter owns one table, populated once before any test body executes and
// read-only afterwards apart from the Var backfill.
type ResultTable map[Position]*TypeRecord
