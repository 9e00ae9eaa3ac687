// Package ipc exposes the daemon over JSON-RPC on a Unix socket and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. Calls
// are dispatched through the daemon's tool registry so IPC conversions share
// the same admission limit, metrics, and correlation ids as MCP and HTTP.
//
// Reuse these types when adding new RPC endpoints to keep the protocol stable
// and compatible with existing command implementations.
package ipc
