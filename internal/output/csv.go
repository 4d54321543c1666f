// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// ErrBadHeader is returned by ReadCSV when the first record is not the
// expected column list.
var ErrBadHeader = errors.New("csv header does not match expected columns")

// WriteCSV writes the header row followed by one record per paper. Fields
// containing commas, quotes, or newlines are quoted.
func WriteCSV(w io.Writer, papers []types.Paper) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(types.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range papers {
		if err := cw.Write(p.Record()); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// ReadCSV parses output produced by WriteCSV.
func ReadCSV(r io.Reader) ([]types.Paper, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(types.Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(header, types.Columns) {
		return nil, fmt.Errorf("%w: got %q", ErrBadHeader, header)
	}

	papers := []types.Paper{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		p, _ := types.PaperFromRecord(rec)
		papers = append(papers, p)
	}
	return papers, nil
}
