// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperwatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperwatch/internal/secrets"
	"github.com/pdiddy/paperwatch/internal/settings"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// settingsPath is where the mutable settings file lives.
const settingsPath = "paperwatch-settings.yaml"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// loadedSettings holds the mutable settings loaded at startup.
var loadedSettings settings.Settings

// rootCmd is the base command for the paperwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "paperwatch",
	Short: "Daily arXiv paper triage pipeline",
	Long: `paperwatch fetches newly announced arXiv papers once a day, filters them
for topical relevance with an LLM scorer, enriches the survivors with a deep
per-paper analysis, and keeps the three stage outputs in a local store (raw
and filtered for the current day, reports for the last seven days).

Each stage commit can optionally be mirrored to a webhook or an S3 bucket.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is normal.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		loadedSettings, err = settings.Load(settingsPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperwatch.yaml or ~/.config/paperwatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperwatch"))
		}
	}

	viper.SetEnvPrefix("PAPERWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the pipeline configuration: viper config first, then
// the persisted settings overlay, then secrets for anything still unset.
func buildConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			Categories:  viper.GetStringSlice("fetch.categories"),
			IDBatchSize: viper.GetInt("fetch.id_batch_size"),
			PageSize:    viper.GetInt("fetch.page_size"),
			MaxOffset:   viper.GetInt("fetch.max_offset"),
			PageDelay:   viper.GetDuration("fetch.page_delay"),
		},
		Filter: types.FilterConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("filter.model"),
				APIKey:     viper.GetString("filter.api_key"),
				MaxRetries: viper.GetInt("filter.max_retries"),
			},
			BatchSize: viper.GetInt("filter.batch_size"),
			MinScore:  viper.GetInt("filter.min_score"),
			Interests: viper.GetString("filter.interests"),
		},
		Analyze: types.AnalyzeConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("analyze.model"),
				APIKey:     viper.GetString("analyze.api_key"),
				MaxRetries: viper.GetInt("analyze.max_retries"),
			},
			Concurrency: viper.GetInt("analyze.concurrency"),
		},
		Store: types.StoreConfig{
			DBPath:          viper.GetString("store.db_path"),
			ReportRetention: viper.GetInt("store.report_retention"),
			MirrorURL:       viper.GetString("store.mirror_url"),
			S3Bucket:        viper.GetString("store.s3_bucket"),
			S3Region:        viper.GetString("store.s3_region"),
			S3Prefix:        viper.GetString("store.s3_prefix"),
		},
	}

	// Defaults for anything the config file left unset.
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "paperwatch/" + version
	}
	if len(cfg.Fetch.Categories) == 0 {
		cfg.Fetch.Categories = []string{"cs.CV", "cs.AI"}
	}
	if cfg.Filter.Model == "" {
		cfg.Filter.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.Analyze.Model == "" {
		cfg.Analyze.Model = cfg.Filter.Model
	}
	if cfg.Filter.MaxRetries <= 0 {
		cfg.Filter.MaxRetries = 3
	}
	if cfg.Analyze.MaxRetries <= 0 {
		cfg.Analyze.MaxRetries = 3
	}
	if cfg.Filter.Interests == "" {
		cfg.Filter.Interests = "computer vision, multimodal learning, and efficient model deployment"
	}
	if cfg.Store.DBPath == "" {
		cfg.Store.DBPath = "paperwatch.db"
	}

	loadedSettings.Apply(&cfg)

	if cfg.Filter.APIKey == "" {
		cfg.Filter.APIKey = loadedSecrets["anthropic-api-key"]
	}
	if cfg.Analyze.APIKey == "" {
		cfg.Analyze.APIKey = loadedSecrets["anthropic-api-key"]
	}
	if cfg.Store.MirrorURL == "" {
		cfg.Store.MirrorURL = loadedSecrets["mirror-webhook-url"]
	}
	if cfg.Store.S3Bucket == "" {
		cfg.Store.S3Bucket = loadedSecrets["s3-bucket"]
	}

	return cfg
}

// newLogger builds the CLI logger. Verbose runs get development output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
