// Package api defines wire-format types shared by the daemon's HTTP API, the
// IPC service, and the CLI.
//
// DaemonStatus aggregates runtime information (lock, listeners, admission
// counters), the encoder probe, and a host resource snapshot. HostStats is
// collected with gopsutil so operators can tell a saturated host from a slow
// encoder.
//
// DTOs use camelCase JSON tags. Conversion payloads reuse convert.Request and
// convert.Response so every surface reports the same shape.
package api
