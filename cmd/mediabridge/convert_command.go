package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediabridge/internal/apiclient"
	"mediabridge/internal/convert"
	"mediabridge/internal/ipc"
	"mediabridge/internal/services"
	"mediabridge/internal/tools"
)

type convertOptions struct {
	format    string
	quality   string
	framerate int
	daemon    bool
	server    string
	token     string
	json      bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a media file with the configured encoder",
		Long: "Convert a media file into another container format.\n\n" +
			"By default the conversion runs in this process. Use --daemon to hand it to a\n" +
			"running mediabridge daemon over its socket, or --server to send it to a\n" +
			"daemon's HTTP API.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := convert.Request{
				InputPath:    strings.TrimSpace(args[0]),
				OutputFormat: opts.format,
				Quality:      opts.quality,
				Framerate:    opts.framerate,
			}

			var (
				resp convert.Response
				err  error
			)
			switch {
			case strings.TrimSpace(opts.server) != "":
				resp, err = convertRemote(cmd.Context(), ctx, req, opts)
			case opts.daemon:
				resp, err = convertViaDaemon(ctx, absInput(req))
			default:
				resp, err = convertLocal(cmd, ctx, absInput(req), !opts.json)
			}
			if err != nil {
				return err
			}

			if err := emit(cmd, opts.json, resp, func(w io.Writer) error {
				return printConvertResponse(w, resp)
			}); err != nil {
				return err
			}
			return conversionError(resp)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", convert.DefaultOutputFormat, "Output format (see `mediabridge formats`)")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "Quality preset: low, medium, or high")
	cmd.Flags().IntVar(&opts.framerate, "framerate", 0, "Output frame rate (0 keeps the source rate)")
	cmd.Flags().BoolVar(&opts.daemon, "daemon", false, "Run the conversion in the mediabridge daemon")
	cmd.Flags().StringVar(&opts.server, "server", "", "Daemon HTTP API base URL (for example http://127.0.0.1:7591)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token for --server (defaults to server.api_token)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the conversion response as JSON")
	cmd.MarkFlagsMutuallyExclusive("daemon", "server")

	return cmd
}

func absInput(req convert.Request) convert.Request {
	if req.InputPath == "" || filepath.IsAbs(req.InputPath) {
		return req
	}
	if abs, err := filepath.Abs(req.InputPath); err == nil {
		req.InputPath = abs
	}
	return req
}

func convertLocal(cmd *cobra.Command, ctx *commandContext, req convert.Request, showProgress bool) (convert.Response, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return convert.Response{}, err
	}
	logger, err := ctx.logger()
	if err != nil {
		return convert.Response{}, fmt.Errorf("init logger: %w", err)
	}

	registry := tools.New(cfg, convert.NewService(cfg, logger), logger)
	var sink convert.ProgressSink
	if showProgress {
		stderr := cmd.ErrOrStderr()
		sink = convert.ProgressFunc(func(_ context.Context, m convert.Milestone) {
			fmt.Fprintf(stderr, "[%3d%%] %s\n", m.Percent, m.Stage)
		})
	}
	runCtx := services.WithTransport(cmd.Context(), "cli")
	return registry.Convert(runCtx, req, sink), nil
}

func convertViaDaemon(ctx *commandContext, req convert.Request) (convert.Response, error) {
	var resp convert.Response
	err := ctx.withClient(func(client *ipc.Client) error {
		out, err := client.Convert(req)
		if err != nil {
			return err
		}
		resp = out.Result
		return nil
	})
	return resp, err
}

func convertRemote(runCtx context.Context, ctx *commandContext, req convert.Request, opts convertOptions) (convert.Response, error) {
	token := strings.TrimSpace(opts.token)
	if token == "" {
		if cfg := ctx.configValue(); cfg != nil {
			token = cfg.Server.APIToken
		}
	}
	return apiclient.New(opts.server, token).Convert(runCtx, req)
}

func printConvertResponse(w io.Writer, resp convert.Response) error {
	if resp.Success {
		fmt.Fprintf(w, "Output: %s\n", resp.OutputFilePath)
		if resp.Message != "" {
			fmt.Fprintln(w, resp.Message)
		}
		return nil
	}
	fmt.Fprintf(w, "Conversion failed (%s)\n", resp.ErrorKind)
	if resp.Command != "" {
		fmt.Fprintf(w, "Command: %s\n", resp.Command)
	}
	return nil
}

// conversionError maps a failed response onto the service error markers so
// the process exit status reflects the failure class.
func conversionError(resp convert.Response) error {
	if resp.Success {
		return nil
	}
	marker := services.ErrExternalTool
	switch resp.ErrorKind {
	case convert.KindUnsupportedFormat:
		marker = services.ErrValidation
	case convert.KindInputNotFound:
		marker = services.ErrNotFound
	case convert.KindEncoderNotInstalled:
		marker = services.ErrConfiguration
	case convert.KindTimeout, convert.KindCanceled:
		marker = services.ErrTransient
	}
	return services.Wrap(marker, "convert", "", resp.Error, nil)
}
