// Package deps locates external binaries mediabridge depends on and reports
// their availability and version.
package deps
