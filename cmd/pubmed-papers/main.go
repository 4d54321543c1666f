// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-papers CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/pubmed-papers/internal/pipeline"
	"github.com/pdiddy/pubmed-papers/internal/pubmed"
	"github.com/pdiddy/pubmed-papers/internal/secrets"
	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envKeyReplacer maps nested config keys to environment names,
// e.g. pubmed.api_key -> PUBMED_PAPERS_PUBMED_API_KEY.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd searches PubMed for its single argument and reports papers with
// industry-affiliated authors.
var rootCmd = &cobra.Command{
	Use:   "pubmed-papers <query>",
	Short: "Find PubMed papers with pharmaceutical or biotech affiliations",
	Long: `pubmed-papers searches PubMed for the given query, fetches the matching
records, and reports for each one the first author whose affiliation carries
an email address, along with that address and all listed affiliations.

Rows are printed to stdout, or written to --file as CSV (or JSON/YAML with
--format). --db additionally records the run in a SQLite database.
Use --version to print the version.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		if err := initLogger(debug); err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runSearch,
}

func init() {
	cobra.OnInitialize(initConfig)

	// No subcommands: every positional argument is a search term, including
	// "version", "help", and "completion".
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("pubmed-papers {{.Version}}\n")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-papers.yaml or ~/.config/pubmed-papers/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory holding ncbi-api-key and ncbi-email files")

	rootCmd.Flags().StringP("file", "f", "", "filename to save the results; prints to stdout when empty")
	rootCmd.Flags().IntP("max-results", "m", types.DefaultMaxResults, "maximum number of results to fetch from PubMed")
	rootCmd.Flags().String("format", string(types.FormatCSV), "file format for --file: csv, json, or yaml (requires --file)")
	rootCmd.Flags().String("db", "", "also record results in this SQLite database (works with or without --file)")

	viper.SetDefault("pubmed.base_url", types.DefaultBaseURL)
	viper.SetDefault("pubmed.database", types.DefaultDatabase)
	viper.SetDefault("pubmed.tool", types.DefaultTool)
	viper.SetDefault("pubmed.timeout", types.DefaultPubMedConfig().Timeout)
	viper.SetDefault("pubmed.user_agent", "pubmed-papers/"+version)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-papers")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-papers"))
		}
	}

	viper.SetEnvPrefix("PUBMED_PAPERS")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger installs the global zap logger: development output at debug
// level when debug is set, production JSON at warn level otherwise.
func initLogger(debug bool) error {
	var zapCfg zap.Config
	if debug {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level.SetLevel(zapcore.DebugLevel)
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level.SetLevel(zapcore.WarnLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// pubmedConfig assembles the client config from viper and loaded secrets.
func pubmedConfig() (types.PubMedConfig, error) {
	cfg := types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("pubmed.timeout"),
			UserAgent: viper.GetString("pubmed.user_agent"),
		},
		BaseURL:  viper.GetString("pubmed.base_url"),
		Database: viper.GetString("pubmed.database"),
		APIKey:   viper.GetString("pubmed.api_key"),
		Email:    viper.GetString("pubmed.email"),
		Tool:     viper.GetString("pubmed.tool"),
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg, cfg.Validate()
}

func runSearch(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults < 1 {
		return fmt.Errorf("--max-results must be at least 1, got %d", maxResults)
	}
	file, _ := cmd.Flags().GetString("file")
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := types.ParseOutputFormat(formatFlag)
	if err != nil {
		return err
	}
	if file == "" && cmd.Flags().Changed("format") {
		return fmt.Errorf("--format applies only to file output; set --file as well")
	}
	db, _ := cmd.Flags().GetString("db")

	cfg, err := pubmedConfig()
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "search"))
	client := pubmed.NewClient(cfg, nil, log)

	opts := pipeline.Options{
		Term:       args[0],
		MaxResults: maxResults,
		Output: types.OutputConfig{
			File:     file,
			Format:   format,
			Database: db,
		},
	}
	return pipeline.Run(cmd.Context(), client, opts, cmd.OutOrStdout(), log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
