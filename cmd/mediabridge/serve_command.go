package main

import (
	"github.com/spf13/cobra"

	"mediabridge/internal/convert"
	"mediabridge/internal/logging"
	"mediabridge/internal/mcp"
	"mediabridge/internal/tools"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion tools to MCP clients",
	}

	serveCmd.AddCommand(&cobra.Command{
		Use:   "stdio",
		Short: "Speak MCP over stdin and stdout",
		Long: "Speak newline-delimited MCP JSON-RPC over stdin and stdout. Logs go to\n" +
			"stderr and the log file so stdout carries only protocol messages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "mcp-stdio")

			registry := tools.New(cfg, convert.NewService(cfg, logger), logger)
			server := mcp.NewServer(registry, mcp.ServerInfo{Name: "mediabridge", Version: version}, logger)
			logger.Info("serving MCP over stdio",
				logging.String(logging.FieldEventType, "mcp_stdio_started"),
				logging.Int("max_concurrent", registry.Capacity()),
			)
			return server.ServeStdio(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	return serveCmd
}
