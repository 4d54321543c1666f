package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-papers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Default E-utilities settings.
const (
	DefaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultDatabase   = "pubmed"
	DefaultTool       = "pubmed-papers"
	DefaultMaxResults = 10
)

// PubMedConfig holds settings for the NCBI E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root; esearch.fcgi and efetch.fcgi are
	// resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Database is the Entrez database name (default "pubmed").
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	// APIKey raises the NCBI rate limit when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email and Tool identify the caller to NCBI.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
}

// DefaultPubMedConfig returns a config pointing at the public NCBI service.
func DefaultPubMedConfig() PubMedConfig {
	return PubMedConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: DefaultTool,
		},
		BaseURL:  DefaultBaseURL,
		Database: DefaultDatabase,
		Tool:     DefaultTool,
	}
}

// Validate reports whether the config can be used to build a client.
func (c PubMedConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("pubmed base_url is empty")
	}
	if c.Database == "" {
		return fmt.Errorf("pubmed database is empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

// OutputFormat selects the file encoding used when results are saved.
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat maps a flag value to an OutputFormat. An empty value
// selects CSV.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv, json, or yaml)", s)
}

// OutputConfig holds settings for the result sink.
type OutputConfig struct {
	// File is the destination path. Empty prints rows to stdout.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Format selects the encoding for File.
	Format OutputFormat `json:"format" yaml:"format"`

	// Database, when set, is a SQLite file that also receives the rows.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}
