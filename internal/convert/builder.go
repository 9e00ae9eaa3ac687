package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediabridge/internal/deps"
	"mediabridge/internal/formats"
	"mediabridge/internal/preset"
)

// Invocation is a fully assembled encoder command.
type Invocation struct {
	Program    string
	Args       []string
	InputPath  string
	OutputPath string
	Format     string

	release func()
}

// CommandLine renders the command for diagnostics.
func (inv Invocation) CommandLine() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, inv.Program)
	parts = append(parts, inv.Args...)
	return strings.Join(parts, " ")
}

// Release frees the output path reservation, if any. Safe to call more than once.
func (inv Invocation) Release() {
	if inv.release != nil {
		inv.release()
	}
}

// Builder validates requests and produces encoder invocations.
type Builder struct {
	// Encoder is the configured binary, either a bare name or a path.
	Encoder     string
	SearchPaths []string
	// OutputDirName is the directory created next to the input.
	OutputDirName string
	// Suffix is appended to the input stem.
	Suffix string
	// Reservations, when non-nil, prevents concurrent builds from choosing
	// the same output path.
	Reservations *Reservations
}

// Build validates req and assembles the encoder command. The output path did
// not exist when Build returned. Callers must Release the invocation once the
// encoder has finished.
func (b *Builder) Build(req Request, p preset.Preset) (Invocation, *Failure) {
	format := req.Format()
	if _, ok := formats.CategoryOf(format); !ok {
		return Invocation{}, newFailure(KindUnsupportedFormat,
			"Unsupported output format: %s. Supported formats: %s",
			strings.TrimSpace(req.OutputFormat), strings.Join(formats.Supported(), ", "))
	}

	input := strings.TrimSpace(req.InputPath)
	info, err := os.Stat(input)
	if input == "" || err != nil || !info.Mode().IsRegular() {
		return Invocation{}, newFailure(KindInputNotFound, "Input file not found: %s", req.InputPath)
	}
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}

	outDir := filepath.Join(filepath.Dir(input), b.outputDirName())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Invocation{}, unexpected(fmt.Errorf("create output directory: %w", err))
	}

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	outPath, release, err := pickOutputPath(b.Reservations, outDir, stem, b.suffix(), format)
	if err != nil {
		return Invocation{}, unexpected(err)
	}

	args := []string{"-y", "-i", input}
	args = append(args, p.Args()...)
	args = append(args, preset.Framerate(format, req.Framerate).Args()...)
	args = append(args, outPath)

	return Invocation{
		Program:    deps.LocateOrName(b.encoder(), b.SearchPaths),
		Args:       args,
		InputPath:  input,
		OutputPath: outPath,
		Format:     format,
		release:    release,
	}, nil
}

func (b *Builder) encoder() string {
	if e := strings.TrimSpace(b.Encoder); e != "" {
		return e
	}
	return "ffmpeg"
}

func (b *Builder) outputDirName() string {
	if b.OutputDirName != "" {
		return b.OutputDirName
	}
	return "converted_videos"
}

func (b *Builder) suffix() string {
	if b.Suffix != "" {
		return b.Suffix
	}
	return "_converted"
}

func unexpected(err error) *Failure {
	f := newFailure(KindUnexpected, "An error occurred during conversion: %v", err)
	f.Err = err
	return f
}
