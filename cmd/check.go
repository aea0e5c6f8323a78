package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrryf/thesisweb/internal/content"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the thesis content",
	Long: `Checks the content directory for missing section ids, unknown figures,
duplicate glossary terms, incomplete references, uncited references and
navigation entries without a page. Exits non-zero when errors are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := loadContent(cfg)
		if err != nil {
			return err
		}

		issues := content.Check(c)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if issues == nil {
				issues = []content.Issue{}
			}
			if err := enc.Encode(issues); err != nil {
				return err
			}
		} else {
			for _, issue := range issues {
				fmt.Println(issue)
			}
			fmt.Printf("\n%d page(s), %d term(s), %d reference(s), %d issue(s)\n",
				len(c.Pages), len(c.Glossary), len(c.References), len(issues))
		}

		if content.HasErrors(issues) {
			return fmt.Errorf("content check failed")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("json", false, "print issues as JSON")
	rootCmd.AddCommand(checkCmd)
}
