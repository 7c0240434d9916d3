package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/lazyreg/logging"
	"github.com/agbru/lazyreg/metrics"
)

// metricsCollector chooses the metrics collector for the run. When a
// metrics address is configured it starts an HTTP server exposing the
// Prometheus registry on /metrics and returns a shutdown function for it.
func (a *Application) metricsCollector() (metrics.Collector, func()) {
	if a.collector != nil {
		return a.collector, func() {}
	}
	if a.Config.MetricsAddr == "" {
		return metrics.NewNop(), func() {}
	}

	reg := prometheus.NewRegistry()
	col := metrics.NewPrometheusCollector(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.Config.MetricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.MustGlobal().Error("metrics server failed", err,
				logging.String("addr", a.Config.MetricsAddr))
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return col, shutdown
}
