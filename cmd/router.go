package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/devserver/internal/handler"
	"github.com/angeloszaimis/devserver/internal/metrics"
	"github.com/angeloszaimis/devserver/internal/static"
)

func setupRouter(log *slog.Logger, root string, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/", handler.NewAccessHandler(log, static.Handler(root), metricsCollector))

	return mux
}
