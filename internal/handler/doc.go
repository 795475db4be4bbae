// Package handler wraps the static file handler with per-request access
// logging and non-blocking metric events.
package handler
