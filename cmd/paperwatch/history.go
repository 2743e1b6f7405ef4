// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the retained daily reports",
	Long: `History reads the report manifest and prints each retained day's report,
newest first. Dates referenced by the manifest whose snapshot has been
removed are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := buildConfig()
		blobs, err := store.OpenBlobStore(cfg.Store.DBPath)
		if err != nil {
			return err
		}
		defer blobs.Close()

		st := store.New(blobs, cfg.Store, nil, nil)
		history, err := st.LoadHistory(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(history)
		}

		if len(history) == 0 {
			fmt.Println("No reports retained.")
			return nil
		}

		for _, snap := range history {
			fmt.Printf("%s  (%d papers)\n", snap.DateKey, len(snap.Papers))
			for _, p := range snap.Papers {
				fmt.Printf("  [%2d] %s  %s\n", p.Score, p.ID, p.Title)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("json", false, "output history as JSON")

	rootCmd.AddCommand(historyCmd)
}
