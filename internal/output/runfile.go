// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// WriteJSON writes papers as an indented JSON array keyed by column name.
func WriteJSON(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes a run file: the query, the time it ran, and its rows.
// ReadYAML loads it back without re-querying PubMed.
func WriteYAML(w io.Writer, run Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ReadYAML parses a run file written by WriteYAML.
func ReadYAML(r io.Reader) (Run, error) {
	var run Run
	if err := yaml.NewDecoder(r).Decode(&run); err != nil {
		return Run{}, fmt.Errorf("decode yaml: %w", err)
	}
	return run, nil
}
