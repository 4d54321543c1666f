// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads NCBI credentials from a directory of plain-text files.
// Only two file names are recognised, ncbi-api-key and ncbi-email; each
// file's trimmed contents are the value. Anything else in the directory is
// ignored.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Key file names.
const (
	KeyNCBIAPIKey = "ncbi-api-key"
	KeyNCBIEmail  = "ncbi-email"
)

// known lists the key files Load accepts.
var known = map[string]bool{
	KeyNCBIAPIKey: true,
	KeyNCBIEmail:  true,
}

// Load reads the NCBI key files in dir and returns their trimmed contents
// by key. A missing directory yields an empty map. Dotfiles and
// subdirectories are skipped silently; other unrecognised files, unreadable
// files, and empty values are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	log := zap.L().With(zap.String("secrets_dir", dir))
	found := make(map[string]string, len(known))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !known[name] {
			log.Warn("ignoring unknown secret file", zap.String("name", name))
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			log.Warn("secret file is empty", zap.String("name", name))
			continue
		}
		found[name] = value
	}
	return found, nil
}

// Apply fills the API key and email in cfg from s. Values already set in
// cfg (from flags, config file, or environment) take precedence.
func Apply(cfg *types.PubMedConfig, s map[string]string) {
	if cfg.APIKey == "" {
		cfg.APIKey = s[KeyNCBIAPIKey]
	}
	if cfg.Email == "" {
		cfg.Email = s[KeyNCBIEmail]
	}
}
