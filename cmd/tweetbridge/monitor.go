package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

func monitoringHandler(collector *metrics.MetricsCollector) http.Handler {
	mux := http.NewServeMux()

	// Metrics endpoint
	mux.Handle("/metrics", collector)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// serveMonitoring serves /metrics and /health on addr until ctx is done.
func serveMonitoring(ctx context.Context, addr string, collector *metrics.MetricsCollector) error {
	server := &http.Server{
		Addr:    addr,
		Handler: monitoringHandler(collector),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	slog.Info("monitoring endpoints started", "addr", addr)

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("monitoring server: %w", err)
	}
}
