package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mrryf/thesisweb/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize thesisweb configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure thesisweb for your thesis and generates a .thesisweb.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
