package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/crowdsecurity/go-cs-lib/trace"

	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/metrics"
)

// startMetricsServer exposes /metrics until ctx is done. It returns the
// address actually listened on, or nil when prometheus is disabled.
func startMetricsServer(ctx context.Context, cfg *dsconfig.PrometheusCfg, logger *log.Entry) (net.Addr, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if err := metrics.RegisterMetrics(prometheus.DefaultRegisterer, cfg.Level); err != nil {
		return nil, err
	}

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", cfg.ListenURI())
	if err != nil {
		return nil, fmt.Errorf("unable to listen for prometheus on %s: %w", cfg.ListenURI(), err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		defer trace.CatchPanic("debugstream/metricsServer")

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("prometheus server: %s", err)
		}
	}()

	go func() {
		defer trace.CatchPanic("debugstream/metricsShutdown")

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("prometheus server shutdown: %s", err)
		}
	}()

	logger.Infof("Serving metrics on http://%s/metrics", ln.Addr())

	return ln.Addr(), nil
}
