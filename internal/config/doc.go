// Package config loads, normalizes, and validates mediabridge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIABRIDGE_ENCODER. The Config type centralizes the encoder location,
// output naming, server binds, and logging knobs so the CLI, the daemon, and
// the stdio tool server resolve settings in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, an explicit encoder binary, and clear validation errors.
package config
