// Package logs reads the structured log file mediabridge writes to its log
// directory. It backs the `mediabridge logs` command: Last returns the newest
// matching lines and Follow streams lines appended afterwards. Filters match
// the JSON fields emitted by internal/logging.
package logs
