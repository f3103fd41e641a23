package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/pipeline"
	"git.home.luguber.info/inful/docversions/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce      time.Duration `default:"300ms" help:"Quiet period before rebuilding"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := g.logger()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if c.MetricsListen != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := startMetricsServer(c.MetricsListen, reg, logger)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Metrics server shutdown error", logfields.Error(err))
			}
		}()
	}

	p := pipeline.NewPipeline(pipeline.WithLogger(logger), pipeline.WithRecorder(recorder))
	defer func() { _ = p.Close() }()

	w, err := watch.New(root.Config, p, watch.WithDebounce(c.Debounce), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func startMetricsServer(addr string, reg *prom.Registry, logger *slog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metrics.NewMux(reg), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}
