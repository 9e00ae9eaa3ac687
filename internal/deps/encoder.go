package deps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ErrNotFound reports that a binary could not be resolved.
var ErrNotFound = errors.New("binary not found")

const versionProbeTimeout = 10 * time.Second

// Locate resolves command to an executable path. Commands containing a path
// separator are checked directly; bare names are looked up on PATH and then
// in each search directory in order.
func Locate(command string, searchPaths []string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("%w: empty command", ErrNotFound)
	}
	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		info, err := os.Stat(command)
		if err != nil || !isExecutable(info) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, command)
		}
		return command, nil
	}
	if path, err := exec.LookPath(command); err == nil {
		return path, nil
	}
	name := command
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	for _, dir := range searchPaths {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, command)
}

// LocateOrName returns the resolved path, or command unchanged when it cannot
// be resolved so that launching it surfaces the not-found condition.
func LocateOrName(command string, searchPaths []string) string {
	if path, err := Locate(command, searchPaths); err == nil {
		return path
	}
	return strings.TrimSpace(command)
}

// EncoderInfo describes the result of probing the encoder.
type EncoderInfo struct {
	Installed bool   `json:"installed"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ProbeEncoder runs "<command> -version" and reports the first output line.
// name is the display name used in error messages.
func ProbeEncoder(ctx context.Context, name, command string, searchPaths []string) EncoderInfo {
	if strings.TrimSpace(name) == "" {
		name = "FFmpeg"
	}
	path, err := Locate(command, searchPaths)
	if err != nil {
		return EncoderInfo{Error: fmt.Sprintf("%s not found in system PATH.", name)}
	}
	version, err := Version(ctx, path)
	if err != nil {
		return EncoderInfo{Path: path, Error: fmt.Sprintf("%s found but version command failed: %v", name, err)}
	}
	return EncoderInfo{Installed: true, Path: path, Version: version}
}

// Version executes the binary with -version and returns the first line of
// its output, preferring stdout over stderr.
func Version(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", err
		}
		detail := firstNonEmpty(stderr.String(), stdout.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", errors.New(detail)
	}
	output := firstNonEmpty(stdout.String(), stderr.String())
	if output == "" {
		return "Unknown version", nil
	}
	line, _, _ := strings.Cut(output, "\n")
	return strings.TrimSpace(line), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(strings.ToValidUTF8(v, "\uFFFD")); v != "" {
			return v
		}
	}
	return ""
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
