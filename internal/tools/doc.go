// Package tools exposes mediabridge operations as named tools with JSON
// argument schemas. The MCP server, the daemon HTTP API, and the IPC service
// all dispatch through a Registry so admission control, correlation IDs,
// logging, and metrics are applied the same way on every surface.
package tools
