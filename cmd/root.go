package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mrryf/thesisweb/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "thesisweb",
	Short: "Static website generator for a research thesis",
	Long: `thesisweb turns a thesis content directory (site metadata, pages with
numbered sections, glossary, figures and references) into a static website.
Glossary terms get tooltips, in-text citations link to the bibliography and
readers can resume where they stopped.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
