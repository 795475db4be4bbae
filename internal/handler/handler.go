package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/devserver/internal/metrics"
)

type AccessHandler struct {
	logger           *slog.Logger
	next             http.Handler
	metricsCollector *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int64
}

func NewAccessHandler(logger *slog.Logger, next http.Handler, collector *metrics.Collector) *AccessHandler {
	return &AccessHandler{
		logger:           logger,
		next:             next,
		metricsCollector: collector,
	}
}

func (h *AccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	start := time.Now()
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	h.next.ServeHTTP(wrapped, r)
	duration := time.Since(start)

	// Both events wait for the status so missing paths are grouped.
	label := metrics.PathLabel(path, wrapped.statusCode)
	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
		Path:      label,
	})
	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Path:       label,
		Duration:   duration,
		StatusCode: wrapped.statusCode,
		Bytes:      wrapped.bytes,
	})

	level := slog.LevelInfo
	if wrapped.statusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}

	h.logger.Log(r.Context(), level, "Served request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", path),
		slog.Int("status", wrapped.statusCode),
		slog.Int64("bytes", wrapped.bytes),
		slog.Duration("duration", duration))
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *AccessHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	h.metricsCollector.Emit(event)
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
