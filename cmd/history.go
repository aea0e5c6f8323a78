package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrryf/thesisweb/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent site builds",
	Long:  `Lists builds recorded in the local build log, newest first, with their content fingerprint and counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeFn, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		limit, _ := cmd.Flags().GetInt("limit")
		builds, err := store.List(cmd.Context(), history.Filter{Limit: limit})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if builds == nil {
				builds = []history.Build{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(builds)
		}

		if len(builds) == 0 {
			fmt.Println("No builds recorded yet. Run `thesisweb build` first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tBUILD\tFINGERPRINT\tPAGES\tWORDS\tMARKERS\tCITED\tDURATION")
		for i, b := range builds {
			fp := shortHash(b.Fingerprint)
			if i+1 < len(builds) && b.Unchanged(&builds[i+1]) {
				fp += " (unchanged)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				b.Timestamp.Local().Format(time.DateTime), shortHash(b.ID), fp,
				b.Pages, b.Words, b.Markers, len(b.Cited), b.Duration.Round(time.Millisecond))
		}
		return w.Flush()
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest builds from the log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeFn, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		keep, _ := cmd.Flags().GetInt("keep")
		n, err := store.Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d build(s), kept the newest %d.\n", n, keep)
		return nil
	},
}

func shortHash(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of builds to list")
	historyCmd.Flags().Bool("json", false, "print builds as JSON")
	historyPruneCmd.Flags().Int("keep", 50, "number of builds to keep")

	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
