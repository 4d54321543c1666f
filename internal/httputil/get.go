// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Response is an HTTP response whose body has been read and closed.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports whether the response carries HTTP 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Get issues a single GET request and reads the whole body. There is no
// retry: a transport error is returned as-is and any status code is handed
// back to the caller to judge. A nil client uses http.DefaultClient.
//
// Query parameters named in redact are masked in the URL carried by any
// returned error.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent string, redact ...string) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", redactError(err, redact))
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, redactError(err, redact)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}, nil
}

// redactError masks params in the URL of a *url.Error, which net/http
// embeds verbatim in its message.
func redactError(err error, params []string) error {
	if len(params) == 0 {
		return err
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = Redact(ue.URL, params...)
	}
	return err
}

// Redact returns rawURL with the values of the named query parameters
// replaced by "REDACTED", for logging. Unparseable input is returned as-is.
func Redact(rawURL string, params ...string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range params {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}
