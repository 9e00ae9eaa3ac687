package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediabridge/internal/api"
	"mediabridge/internal/apiclient"
	"mediabridge/internal/daemonctl"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the mediabridge daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			opts := daemonLaunchOptions(ctx)
			result, err := daemonctl.EnsureStarted(ctx.socketPath(), exe, opts, 10*time.Second)
			if err != nil {
				return err
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			if result.PID > 0 {
				fmt.Fprintf(stdout, "PID: %d\n", result.PID)
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the mediabridge daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.ShutdownAccepted {
				fmt.Fprintln(stdout, "Stop request sent")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	var statusJSON bool
	var statusServer string
	var statusToken string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, encoder, and host status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				status api.DaemonStatus
				err    error
			)
			if server := strings.TrimSpace(statusServer); server != "" {
				token := strings.TrimSpace(statusToken)
				if token == "" && ctx.configValue() != nil {
					token = ctx.configValue().Server.APIToken
				}
				status, err = apiclient.New(server, token).Status(cmd.Context())
			} else {
				status, err = daemonctl.BuildStatusSnapshot(cmd.Context(), ctx.socketPath(), ctx.configValue())
			}
			if err != nil {
				return err
			}

			return emit(cmd, statusJSON, status, func(w io.Writer) error {
				for _, line := range statusLines(status, shouldColorize(w)) {
					fmt.Fprintln(w, line)
				}
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")
	statusCmd.Flags().StringVar(&statusServer, "server", "", "Query a daemon's HTTP API instead of the local socket")
	statusCmd.Flags().StringVar(&statusToken, "token", "", "Bearer token for --server (defaults to server.api_token)")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	return daemonctl.LaunchOptions{
		ConfigPath: ctx.configPath(),
		SocketPath: ctx.explicitSocket(),
		LogLevel:   ctx.logLevel(),
	}
}
