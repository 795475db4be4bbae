// Package logger provides structured logging for the development server on top
// of log/slog, with text output for local work and JSON output in production.
package logger
