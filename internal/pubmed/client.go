// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API: esearch for matching
// PMIDs and efetch for the full article records.
package pubmed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-papers/internal/httputil"
	"github.com/pdiddy/pubmed-papers/internal/xmltree"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

const (
	searchEndpoint = "esearch.fcgi"
	fetchEndpoint  = "efetch.fcgi"
)

// secretParams are query parameters kept out of logs and error messages.
var secretParams = []string{"api_key"}

// Client talks to one E-utilities deployment. It holds no per-query state.
type Client struct {
	cfg  types.PubMedConfig
	http *http.Client
	log  *zap.Logger
}

// NewClient builds a client. A nil http.Client gets one with cfg.Timeout;
// a nil logger discards output.
func NewClient(cfg types.PubMedConfig, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cfg: cfg, http: hc, log: log}
}

// Search runs term through esearch and returns up to maxResults PMIDs in
// the order the service ranked them. A search with no hits returns an empty
// slice and no error.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxResults, maxResults)
	}

	params := url.Values{
		"term":   {term},
		"retmax": {strconv.Itoa(maxResults)},
	}
	root, err := c.get(ctx, searchEndpoint, params)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, n := range root.FindAll(".//Id") {
		if n.Text != "" {
			ids = append(ids, n.Text)
		}
	}
	// Cap even if the service returns more than retmax.
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// FetchDetails retrieves the PubmedArticleSet for ids in a single efetch
// call and returns its root element.
func (c *Client) FetchDetails(ctx context.Context, ids []string) (*xmltree.Node, error) {
	if len(ids) == 0 {
		return nil, ErrNoIdentifiers
	}

	params := url.Values{
		"id": {strings.Join(ids, ",")},
	}
	return c.get(ctx, fetchEndpoint, params)
}

// get issues one request against endpoint and parses the XML reply.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*xmltree.Node, error) {
	reqURL := c.endpointURL(endpoint, params)
	c.log.Debug("pubmed request",
		zap.String("endpoint", endpoint),
		zap.String("url", httputil.Redact(reqURL, secretParams...)),
	)

	resp, err := httputil.Get(ctx, c.http, reqURL, c.cfg.UserAgent, secretParams...)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	if !resp.OK() {
		return nil, &RemoteServiceError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	root, err := xmltree.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	c.log.Debug("pubmed response",
		zap.String("endpoint", endpoint),
		zap.Int("bytes", len(resp.Body)),
		zap.String("root", root.Tag),
	)
	return root, nil
}

// endpointURL adds the parameters common to every E-utilities call.
func (c *Client) endpointURL(endpoint string, params url.Values) string {
	params.Set("db", c.cfg.Database)
	params.Set("retmode", "xml")
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()
}
