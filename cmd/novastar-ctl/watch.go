package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/novastar-protocol/novastar-go/pkg/metrics"
)

// watchLoop rescans every interval until ctx is done. After a failed
// rescan the next attempt comes sooner, backing off up to interval.
func watchLoop(ctx context.Context, ctl *Controller, interval time.Duration) {
	retry := newRetryBackoff(retryInitial, interval)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wait := interval
		if _, err := ctl.Rescan(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			wait = retry.Next()
			ctl.logger.Warn("rescan failed", "error", err, "retry_in", wait)
		} else {
			retry.Reset()
		}
		timer.Reset(wait)
	}
}

// serveMetrics serves reg on ln under /metrics until ctx is done.
func serveMetrics(ctx context.Context, ln net.Listener, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// runWatch keeps the device set fresh and exports metrics.
func runWatch(ctx context.Context, ctl *Controller, reg *prometheus.Registry, cfg WatchSection) error {
	ln, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- serveMetrics(ctx, ln, reg, ctl.logger)
	}()

	watchLoop(ctx, ctl, cfg.Interval)
	return <-errCh
}
