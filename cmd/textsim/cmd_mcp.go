package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/textsim/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run textsim as an MCP server over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
textsim_cosine, textsim_ratio and textsim_search tools.

Search defaults and preprocessing come from ~/.textsim/config.yaml.
textsim_search reads candidate files only from the working directory and
~/.textsim unless --source-dir is given.
Logs go to stderr so they never mix with protocol traffic.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			trace := openTrace(cfg)
			defer trace.Close()

			sourceDirs, _ := cmd.Flags().GetStringSlice("source-dir")
			if len(sourceDirs) == 0 {
				sourceDirs = nil
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:       "textsim",
				Version:    version,
				Settings:   cfg,
				Logger:     logger,
				Trace:      trace,
				SourceDirs: sourceDirs,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			logger.Info("mcp server starting", "version", version)
			return server.Run(contextOf(cmd))
		},
	}

	cmd.Flags().StringSlice("source-dir", nil, "Directory textsim_search may read candidate files from (repeatable)")

	return cmd
}
