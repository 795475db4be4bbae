package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angeloszaimis/devserver/config"
	"github.com/angeloszaimis/devserver/internal/backend"
	"github.com/angeloszaimis/devserver/internal/healthcheck"
	"github.com/angeloszaimis/devserver/internal/httpserver"
	"github.com/angeloszaimis/devserver/internal/metrics"
	"github.com/angeloszaimis/devserver/pkg/logger"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("invalid flags", slog.Any("err", err))
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", slog.Any("err", err))
	}

	cfg := config.Load(opts.configPath)
	opts.apply(cfg)

	log := logger.New(cfg.Logging.Level, false, cfg.Server.Environment)
	root := cfg.RootDir()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	collectorCtx, stopCollector := context.WithCancel(context.Background())
	collector := metrics.NewCollector(1000, log)
	collector.Start(collectorCtx)

	result := runProbe(log, cfg, collector)
	printProbeSummary(os.Stdout, result)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv, err := httpserver.New(addr, setupRouter(log, root, collector))
	if err != nil {
		log.Error("Failed to create server", slog.String("addr", addr), slog.Any("err", err))
		os.Exit(1)
	}

	if err := srv.Listen(); err != nil {
		log.Error("Failed to bind listener", slog.String("addr", addr), slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Serving static files", slog.String("root", root), slog.String("addr", srv.Addr()))
	printServing(os.Stdout, root, srv.Addr())

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Serve()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Server stopped unexpectedly", slog.Any("err", err))
			os.Exit(1)
		}
	}

	stopCollector()
	<-collector.Done()
	collector.LogSummary(log)
}

// runProbe checks the backend once. Its outcome never stops the server from starting.
func runProbe(log *slog.Logger, cfg *config.Config, collector *metrics.Collector) healthcheck.Result {
	prober := healthcheck.NewProber(log, nil)
	result := prober.Probe(context.Background(), backend.New(cfg.Supabase))

	log.Info("Backend probe finished", slog.Any("result", result))
	collector.Emit(metrics.MetricEvent{
		Type:   metrics.EventProbeCompleted,
		Reason: string(result.Reason),
	})

	return result
}
