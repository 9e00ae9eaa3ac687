package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// EncoderBehavior selects what a stub encoder does when invoked for a conversion.
type EncoderBehavior int

const (
	// EncoderWritesOutput writes a few bytes to the output path and exits 0.
	EncoderWritesOutput EncoderBehavior = iota
	// EncoderWritesEmpty creates a zero-length output and exits 0.
	EncoderWritesEmpty
	// EncoderWritesNothing exits 0 without creating the output.
	EncoderWritesNothing
	// EncoderFails prints StubFailureStderr to stderr and exits StubFailureCode.
	EncoderFails
	// EncoderHangs sleeps far longer than any test timeout.
	EncoderHangs
)

const (
	StubFailureStderr = "Unknown encoder 'libfake'"
	StubFailureCode   = 3
	StubVersionLine   = "ffmpeg version 6.1-stub Copyright (c) the stub authors"
)

// StubEncoder describes a stub written by WriteStubEncoder.
type StubEncoder struct {
	Path string
	// ArgsFile receives one argument per line on each invocation.
	ArgsFile string
}

// Args returns the arguments recorded by the most recent invocation.
func (s StubEncoder) Args(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(s.ArgsFile)
	if err != nil {
		t.Fatalf("read stub args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// Invoked reports whether the stub ran at least once.
func (s StubEncoder) Invoked() bool {
	_, err := os.Stat(s.ArgsFile)
	return err == nil
}

// WriteStubEncoder writes an executable shell script into dir that mimics the
// encoder. "-version" always succeeds with StubVersionLine; conversions follow
// behavior. The output path is the last argument.
func WriteStubEncoder(t testing.TB, dir string, behavior EncoderBehavior) StubEncoder {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	path := filepath.Join(dir, "ffmpeg")
	argsFile := filepath.Join(dir, "ffmpeg.args")

	var action string
	switch behavior {
	case EncoderWritesOutput:
		action = `printf 'converted' > "$out"`
	case EncoderWritesEmpty:
		action = `: > "$out"`
	case EncoderWritesNothing:
		action = `:`
	case EncoderFails:
		action = fmt.Sprintf("echo %q >&2\nexit %d", StubFailureStderr, StubFailureCode)
	case EncoderHangs:
		action = `exec sleep 60`
	default:
		t.Fatalf("unknown stub behavior %d", behavior)
	}

	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  echo %q
  exit 0
fi
printf '%%s\n' "$@" > %q
for out; do :; done
%s
exit 0
`, StubVersionLine, argsFile, action)

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub encoder: %v", err)
	}
	return StubEncoder{Path: path, ArgsFile: argsFile}
}
