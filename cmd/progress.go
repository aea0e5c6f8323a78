package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Manage the saved reading position",
	Long: `Reads and writes the reading-progress record, the same JSON the site keeps
in browser local storage, using the backend configured under progress.`,
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved reading position",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kv, store, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer kv.Close()

		p, ok := store.Current()
		if !ok {
			fmt.Println("No reading progress saved.")
			return nil
		}
		fmt.Printf("Page:     %s\n", p.Page)
		if p.SectionTitle != "" {
			fmt.Printf("Section:  %s\n", p.SectionTitle)
		}
		fmt.Printf("Progress: %d%%\n", p.Progress)
		fmt.Printf("Saved:    %s\n", time.UnixMilli(p.Timestamp).Format(time.RFC3339))
		return nil
	},
}

var progressSaveCmd = &cobra.Command{
	Use:   "save <page> <percent>",
	Short: "Save a reading position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid percent %q: %w", args[1], err)
		}
		section, _ := cmd.Flags().GetString("section")
		title, _ := cmd.Flags().GetString("title")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kv, store, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer kv.Close()

		p := store.Update(args[0], section, title, percent)
		fmt.Printf("Saved %s at %d%%\n", p.Page, p.Progress)
		return nil
	},
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved reading position",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kv, store, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer kv.Close()

		store.Clear()
		fmt.Println("Reading progress cleared.")
		return nil
	},
}

var progressResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Print the link to continue reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kv, store, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer kv.Close()

		url, ok := store.ResumeURL()
		if !ok {
			return fmt.Errorf("no reading progress saved")
		}
		fmt.Println(url)
		return nil
	},
}

func init() {
	progressSaveCmd.Flags().String("section", "", "section id to resume at")
	progressSaveCmd.Flags().String("title", "", "section title shown in the resume prompt")

	progressCmd.AddCommand(progressShowCmd, progressSaveCmd, progressClearCmd, progressResumeCmd)
	rootCmd.AddCommand(progressCmd)
}
