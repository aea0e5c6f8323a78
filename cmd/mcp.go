package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mrryf/thesisweb/internal/mcp"
	"github.com/mrryf/thesisweb/internal/site"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing glossary, citation and full-text lookups over the thesis content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := loadContent(cfg)
		if err != nil {
			return err
		}

		kv, progress, err := openProgress(cfg)
		if err != nil {
			// Lookups still work without a progress store.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			defer kv.Close()
		}

		idx := site.NewIndexFor(c)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "thesisweb MCP server started on stdio (content=%s, pages=%d, terms=%d, references=%d)\n",
			cfg.ContentDir, len(c.Pages), len(c.Glossary), len(c.References))

		srv := mcpserver.NewServer(idx, progress)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
