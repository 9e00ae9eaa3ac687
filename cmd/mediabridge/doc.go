// Package main hosts the mediabridge CLI entrypoint and command graph.
//
// The Cobra-based command tree runs conversions locally or forwards them to a
// running daemon over the IPC socket or the HTTP API, lists supported
// formats, reports daemon and encoder health, serves MCP over stdio, and
// scaffolds configuration. Heavy lifting lives in the internal packages;
// commands here only resolve configuration and render results.
package main
