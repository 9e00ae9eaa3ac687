// Package daemonctl starts, stops, and inspects the background daemon from
// the CLI. It launches detached "mediabridge daemon" processes, talks to
// them over IPC, and falls back to local probes when none is running.
package daemonctl
