// Package logging assembles structured slog loggers and formatting helpers used
// across mediabridge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so tool handlers automatically
// tag log lines with correlation IDs and tool names. In stdio server mode the
// logger never writes to stdout, which is reserved for protocol frames.
package logging
