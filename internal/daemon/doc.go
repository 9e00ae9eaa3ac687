// Package daemon coordinates the long-running mediabridge process.
//
// It holds a flock-based lock so only one daemon runs per log directory,
// runs preflight checks at startup, and serves the HTTP surface: the JSON
// API under /api, the MCP endpoint at /mcp, Prometheus metrics, and a health
// probe. Conversion requests are dispatched through the shared tool
// registry, so HTTP, IPC, and MCP callers share one admission limit.
//
// The IPC server lives in package ipc and wraps a *Daemon; process wiring
// (logger, signal handling, pid file) lives in package daemonrun.
package daemon
