// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one run: search PubMed, fetch the matched
// records, extract rows, and hand them to the configured sinks. Nothing is
// written until extraction has finished.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-papers/internal/extract"
	"github.com/pdiddy/pubmed-papers/internal/output"
	"github.com/pdiddy/pubmed-papers/internal/store"
	"github.com/pdiddy/pubmed-papers/internal/xmltree"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// User-facing messages for runs that produce nothing.
const (
	MsgNoPapers         = "No papers found."
	MsgNoIndustryPapers = "No papers found with industry affiliations."
)

// Source is the remote literature service. *pubmed.Client satisfies it.
type Source interface {
	Search(ctx context.Context, term string, maxResults int) ([]string, error)
	FetchDetails(ctx context.Context, ids []string) (*xmltree.Node, error)
}

// Options describes one run.
type Options struct {
	Term       string
	MaxResults int
	Output     types.OutputConfig

	// Now stamps the run; nil uses time.Now.
	Now func() time.Time
}

// Run executes the pipeline and writes messages and console rows to stdout.
func Run(ctx context.Context, src Source, opts Options, stdout io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	log.Debug("fetching pubmed papers", zap.String("query", opts.Term), zap.Int("max_results", opts.MaxResults))
	ids, err := src.Search(ctx, opts.Term, opts.MaxResults)
	if err != nil {
		return fmt.Errorf("searching pubmed: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(stdout, MsgNoPapers)
		return nil
	}
	log.Debug("found pmids", zap.Strings("pmids", ids))

	root, err := src.FetchDetails(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetching paper details: %w", err)
	}

	papers := extract.Papers(root)
	log.Debug("extracted papers", zap.Int("count", len(papers)))
	if len(papers) == 0 {
		fmt.Fprintln(stdout, MsgNoIndustryPapers)
		return nil
	}

	run := output.Run{
		Term:       opts.Term,
		MaxResults: opts.MaxResults,
		Timestamp:  now(),
		Papers:     papers,
	}
	return emit(ctx, run, opts.Output, stdout, log)
}

// emit routes rows to the file sink or the console, then to the database
// when one is configured.
func emit(ctx context.Context, run output.Run, cfg types.OutputConfig, stdout io.Writer, log *zap.Logger) error {
	if cfg.File != "" {
		n, err := output.Save(cfg.File, cfg.Format, run)
		if err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
		fmt.Fprintf(stdout, "Saved %d papers to %s\n", n, cfg.File)
	} else if err := output.Print(stdout, run.Papers); err != nil {
		return fmt.Errorf("printing results: %w", err)
	}

	if cfg.Database == "" {
		return nil
	}
	s, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Record(ctx, run.Term, run.MaxResults, run.Timestamp, run.Papers)
	if err != nil {
		return fmt.Errorf("recording results: %w", err)
	}
	log.Debug("recorded run", zap.String("database", cfg.Database), zap.Int64("query_id", id))
	fmt.Fprintf(stdout, "Saved %d papers to %s\n", len(run.Papers), cfg.Database)
	return nil
}
