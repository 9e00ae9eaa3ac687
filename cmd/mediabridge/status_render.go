package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"mediabridge/internal/api"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusStyles is indexed by statusKind.
var statusStyles = [...]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

const statusLabelWidth = 20

func statusLines(status api.DaemonStatus, colorize bool) []string {
	var lines []string
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, renderSectionHeader(title, colorize)...)
	}
	line := func(label string, kind statusKind, message string) {
		lines = append(lines, renderStatusLine(label, kind, message, colorize))
	}

	section("Daemon")
	if status.Running {
		line("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID))
		if status.Version != "" {
			line("Version", statusInfo, status.Version)
		}
		uptime := time.Duration(status.UptimeSeconds * float64(time.Second)).Truncate(time.Second)
		line("Uptime", statusInfo, uptime.String())
		kind := statusInfo
		if status.MaxConcurrent > 0 && status.InFlight >= status.MaxConcurrent {
			kind = statusWarn
		}
		line("Conversions", kind, fmt.Sprintf("%d of %d slots busy", status.InFlight, status.MaxConcurrent))
	} else {
		line("Daemon", statusWarn, "not running")
	}
	if status.HTTPBind != "" {
		line("HTTP", statusInfo, status.HTTPBind)
	}
	if status.SocketPath != "" {
		line("Socket", statusInfo, status.SocketPath)
	}
	line("Lock file", statusInfo, status.LockFilePath)

	section("Encoder")
	if status.Encoder.Installed {
		line("Encoder", statusOK, status.Encoder.Version)
		line("Path", statusInfo, status.Encoder.Path)
	} else {
		line("Encoder", statusError, nonEmpty(status.Encoder.Error, "not installed"))
	}

	section("Dependencies")
	lines = append(lines, dependencyLines(status.Dependencies, colorize)...)

	section("Host")
	host := status.Host
	if host.Error != "" {
		line("Resources", statusWarn, host.Error)
	} else {
		kind := statusOK
		if host.Busy {
			kind = statusWarn
		}
		line("CPU", kind, fmt.Sprintf("%.0f%%", host.CPUPercent))
		line("Memory", kind, fmt.Sprintf("%.0f%% used", host.MemoryPercent))
	}
	return lines
}

func dependencyLines(deps []api.DependencyStatus, colorize bool) []string {
	if len(deps) == 0 {
		return []string{renderStatusLine("Dependencies", statusInfo, "none reported", colorize)}
	}
	lines := make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, nonEmpty(dep.Detail, "not available"), colorize))
	}
	return lines
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// renderStatusLine formats "  <label:>  [KIND] message" with the label padded
// to a fixed column; colorize wraps the whole line in the kind's colour.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	header := "== " + strings.TrimSpace(title) + " =="
	lines := []string{header, strings.Repeat("-", len(header))}
	if colorize {
		for i := range lines {
			lines[i] = ansiBlue + lines[i] + ansiReset
		}
	}
	return lines
}

// shouldColorize is true only for terminals; pipes and buffers get plain text.
func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
