// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/analyze"
	"github.com/pdiddy/paperwatch/internal/fetch"
	"github.com/pdiddy/paperwatch/internal/filter"
	"github.com/pdiddy/paperwatch/internal/pipeline"
	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily pipeline",
	Long: `Run executes the full pipeline for today: fetch new papers, commit the raw
snapshot, score the raw snapshot for relevance, commit the filtered snapshot,
analyze the survivors, and commit the report.

Each stage reads its input back from the store, so --from can resume a run
from the filter or analyze stage using today's committed snapshots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		verbose, _ := cmd.Flags().GetBool("verbose")

		log, err := newLogger(verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg := buildConfig()

		blobs, err := store.OpenBlobStore(cfg.Store.DBPath)
		if err != nil {
			return err
		}
		defer blobs.Close()

		var sinks []store.Sink
		if cfg.Store.MirrorURL != "" {
			sinks = append(sinks, &store.WebhookSink{URL: cfg.Store.MirrorURL})
		}
		if cfg.Store.S3Bucket != "" {
			s3sink, err := store.NewS3Sink(cmd.Context(), cfg.Store)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: S3 mirror disabled: %v\n", err)
			} else {
				sinks = append(sinks, s3sink)
			}
		}

		client := &http.Client{Timeout: cfg.Fetch.Timeout}
		p := &pipeline.Pipeline{
			Fetcher: fetch.New(cfg.Fetch, nil, log),
			Scorer: &filter.ClaudeBackend{
				APIKey:     cfg.Filter.APIKey,
				Model:      cfg.Filter.Model,
				Interests:  cfg.Filter.Interests,
				MinScore:   cfg.Filter.MinScore,
				MaxRetries: cfg.Filter.MaxRetries,
				Client:     client,
			},
			Analyzer: &analyze.ClaudeBackend{
				APIKey:     cfg.Analyze.APIKey,
				Model:      cfg.Analyze.Model,
				MaxRetries: cfg.Analyze.MaxRetries,
				Client:     client,
			},
			Store: store.New(blobs, cfg.Store, sinks, log),
			Cfg:   cfg,
			Log:   log,
		}

		if from == "" || from == string(types.StageRaw) {
			return p.Run(cmd.Context())
		}
		return p.RunFrom(cmd.Context(), types.Stage(from))
	},
}

func init() {
	runCmd.Flags().String("from", "", "resume from a stage: raw, filtered, or report")
	runCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(runCmd)
}
