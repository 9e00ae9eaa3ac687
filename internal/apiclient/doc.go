// Package apiclient talks to a remote mediabridge daemon over its HTTP API.
//
// Requests go through go-retryablehttp, so transient network failures and
// 5xx responses from a restarting daemon are retried with backoff. Failed
// conversions are not retried: a 422 carries a conversion result and is
// returned to the caller as-is.
package apiclient
