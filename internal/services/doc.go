// Package services defines shared request context keys and error markers used
// by the tool registry, transports, and plumbing packages.
package services
