// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"errors"
	"fmt"
)

// Argument errors. These are caller mistakes and never reach the network.
var (
	ErrEmptyQuery        = errors.New("search term is empty")
	ErrInvalidMaxResults = errors.New("max results must be at least 1")
	ErrNoIdentifiers     = errors.New("no identifiers to fetch")
)

// RemoteServiceError reports a non-200 response from an E-utilities endpoint.
type RemoteServiceError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d (%s)", e.Endpoint, e.StatusCode, e.Status)
}

// MalformedResponseError reports a response body that is not a parseable
// XML document.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
