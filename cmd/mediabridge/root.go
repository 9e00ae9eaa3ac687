package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "mediabridge",
		Short:         "Media conversion bridge for MCP clients",
		Long:          "mediabridge runs FFmpeg conversions for MCP clients over stdio, HTTP, or a local daemon.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&ctx.flags.socket, "socket", "", "Path to the mediabridge daemon socket")
	flags.StringVarP(&ctx.flags.config, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.flags.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(newDaemonCommands(ctx)...)
	root.AddCommand(
		newConvertCommand(ctx),
		newFormatsCommand(),
		newCheckCommand(ctx),
		newServeCommand(ctx),
		newLogsCommand(ctx),
		newDaemonRunCommand(ctx),
		newConfigCommand(ctx),
	)
	return root
}
