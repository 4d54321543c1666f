// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders extracted papers to the console or to a file.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Run is one pipeline invocation: the query that produced the rows and the
// rows themselves. CSV output uses only Papers.
type Run struct {
	Term       string        `json:"term" yaml:"term"`
	MaxResults int           `json:"max_results" yaml:"max_results"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Papers     []types.Paper `json:"papers" yaml:"papers"`
}

// Print writes one line per paper to w in input order, with no header.
func Print(w io.Writer, papers []types.Paper) error {
	for _, p := range papers {
		if _, err := fmt.Fprintln(w, Line(p)); err != nil {
			return err
		}
	}
	return nil
}

// Line renders a paper as "Column: value" pairs separated by " | ".
func Line(p types.Paper) string {
	values := p.Record()
	parts := make([]string, len(types.Columns))
	for i, col := range types.Columns {
		parts[i] = col + ": " + values[i]
	}
	return strings.Join(parts, " | ")
}

// Save writes run to path in the given format and returns the number of
// papers written. A partially written file is removed on error.
func Save(path string, format types.OutputFormat, run Run) (int, error) {
	if err := ensureDir(path); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}

	switch format {
	case types.FormatCSV, "":
		err = WriteCSV(f, run.Papers)
	case types.FormatJSON:
		err = WriteJSON(f, run.Papers)
	case types.FormatYAML:
		err = WriteYAML(f, run)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}

	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing %s: %w", path, closeErr)
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return len(run.Papers), nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
