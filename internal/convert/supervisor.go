package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mediabridge/internal/logging"
)

// waitDelay bounds how long Wait blocks on I/O after the child is killed.
const waitDelay = 5 * time.Second

// Supervisor runs encoder invocations and verifies their output.
type Supervisor struct {
	// EncoderName is the display name used in the not-installed message.
	EncoderName string
	Logger      *slog.Logger
}

// Run launches inv, waits for it to exit, and classifies the outcome. The
// child is killed if ctx ends first.
func (s *Supervisor) Run(ctx context.Context, inv Invocation, sink ProgressSink) Result {
	logger := logging.WithContext(ctx, s.logger())
	report(ctx, sink, MilestoneAccepted)

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("launching encoder", logging.String("command", inv.CommandLine()))
	report(ctx, sink, MilestoneLaunch)
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failed(s.interrupted(inv, ctxErr))
		}
		return failed(s.launchFailure(inv, err))
	}
	report(ctx, sink, MilestoneRunning)

	waitErr := cmd.Wait()
	report(ctx, sink, MilestoneFinished)

	// A clean exit wins over a context that ended after the child was reaped.
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			removePartial(logger, inv.OutputPath)
			return failed(s.interrupted(inv, ctxErr))
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			text := decodeStderr(stderr.Bytes())
			code := exitErr.ExitCode()
			logger.Debug("encoder exited non-zero",
				logging.Int("exit_code", code),
				logging.Int("stdout_bytes", stdout.Len()))
			return failed(&Failure{
				Kind:     KindEncoderFailed,
				Message:  fmt.Sprintf("%s conversion failed. Return code: %d. Error: %s", s.encoderName(), code, text),
				Command:  inv.CommandLine(),
				ExitCode: code,
				Stderr:   text,
				Err:      waitErr,
			})
		}
		return failed(unexpected(waitErr))
	}

	info, err := os.Stat(inv.OutputPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return failed(newFailure(KindOutputMissing, "Output file was not created despite successful return code"))
	case err != nil:
		return failed(unexpected(err))
	case info.Size() == 0:
		return failed(newFailure(KindOutputEmpty, "Output file was created but is empty"))
	}

	report(ctx, sink, MilestoneVerified)
	return succeeded(inv.OutputPath)
}

func (s *Supervisor) launchFailure(inv Invocation, err error) *Failure {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		f := newFailure(KindEncoderNotInstalled, "%s not found. Please ensure it's installed and in PATH.", s.encoderName())
		f.Command = inv.CommandLine()
		f.Err = err
		return f
	}
	return unexpected(err)
}

func (s *Supervisor) interrupted(inv Invocation, ctxErr error) *Failure {
	var f *Failure
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		f = newFailure(KindTimeout, "Conversion timed out; %s process was terminated.", s.encoderName())
	} else {
		f = newFailure(KindCanceled, "Conversion canceled; %s process was terminated.", s.encoderName())
	}
	f.Command = inv.CommandLine()
	f.Err = ctxErr
	return f
}

func (s *Supervisor) encoderName() string {
	if name := strings.TrimSpace(s.EncoderName); name != "" {
		return name
	}
	return "FFmpeg"
}

func (s *Supervisor) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func decodeStderr(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
}

// removePartial deletes output left behind by a killed encoder.
func removePartial(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "remove partial output failed", "partial_output_cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually"))
	}
}
