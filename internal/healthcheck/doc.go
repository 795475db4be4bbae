// Package healthcheck runs the startup connectivity probe against the REST
// backend: one read and, if that succeeds, one write. The outcome is advisory
// and is reported as a Result value rather than an error.
package healthcheck
