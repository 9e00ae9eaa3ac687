// Package preflight provides readiness checks for the encoder, the
// filesystem paths mediabridge writes to, and the host it runs on.
//
// These checks run in two contexts:
//   - The "mediabridge check" command prints every result and exits
//     non-zero when a required check fails.
//   - The daemon runs RunAll at startup and logs failures as warnings so a
//     missing encoder is visible before the first conversion request.
package preflight
