// Package daemonrun hosts the daemon process: logger setup, pid file,
// daemon lifecycle, and the IPC listener.
package daemonrun
