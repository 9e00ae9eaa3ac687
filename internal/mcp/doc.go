// Package mcp serves the mediabridge tools over the Model Context Protocol.
//
// Messages are JSON-RPC 2.0. Two transports are provided:
//   - stdio: one JSON message per line on stdin, responses and notifications
//     on stdout. Tool calls run concurrently; writes are serialized.
//   - HTTP: POST one request per body to the handler returned by Handler.
//
// Supported methods:
//   - initialize, notifications/initialized, ping
//   - tools/list, tools/call
//   - notifications/cancelled (stdio only)
//
// When a tools/call request carries _meta.progressToken, conversion
// milestones are sent as notifications/progress on the stdio transport.
// Tool failures are returned as results with isError set; protocol problems
// are returned as JSON-RPC error objects.
package mcp
