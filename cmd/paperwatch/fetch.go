// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch today's candidate papers without running the pipeline",
	Long: `Fetch runs only the fetch stage and prints the result as a table. Nothing
is written to the store; use it to inspect what a pipeline run would see.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		log, err := newLogger(verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg := buildConfig()
		f := fetch.New(cfg.Fetch, nil, log)

		papers, err := f.Latest(cmd.Context())
		if err != nil {
			return err
		}

		if len(papers) == 0 {
			fmt.Println("No papers found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-12s  %-64s  %-24s  %s\n", "ID", "Title", "Authors", "Categories")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
		for _, p := range papers {
			title := p.Title
			if len(title) > 64 {
				title = title[:61] + "..."
			}
			authors := ""
			switch len(p.Authors) {
			case 0:
			case 1:
				authors = p.Authors[0]
			default:
				authors = p.Authors[0] + " et al."
			}
			if len(authors) > 24 {
				authors = authors[:21] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-12s  %-64s  %-24s  %s\n",
				p.ID, title, authors, strings.Join(p.Categories, ","))
		}
		fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
		return nil
	},
}

func init() {
	fetchCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(fetchCmd)
}
