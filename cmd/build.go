package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static thesis website",
	Long: `Loads the content directory, checks it, and renders every page with glossary
tooltips and linked citations into the output directory. A search index and
a build manifest are written alongside the pages.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("archive", "", "also write the generated site to this .tar.xz file")
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().Bool("serve", false, "start the preview server after building")
	buildCmd.Flags().Int("port", 0, "port for the preview server (defaults to server.port)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	archive, _ := cmd.Flags().GetString("archive")
	serve, _ := cmd.Flags().GetBool("serve")
	if serve {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		return runPreview(cmd.Context(), cfg, previewOptions{archive: archive})
	}

	c, res, err := buildSite(cfg, buildOptions{archive: archive})
	if err != nil {
		return err
	}
	printBuildSummary(cfg, c, res)
	return nil
}
