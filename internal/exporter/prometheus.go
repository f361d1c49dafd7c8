package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/loader"
	"github.com/neox5/gleanbox/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter serves values recorded in a Memory engine for scraping.
type PrometheusExporter struct {
	addr         string
	path         string
	server       *http.Server
	promRegistry *prometheus.Registry
}

// NewPrometheusExporter creates a Prometheus HTTP exporter. Metric
// descriptions are taken from root.
func NewPrometheusExporter(cfg *config.PrometheusExportConfig, mem *engine.Memory, root *loader.Namespace) (*PrometheusExporter, error) {
	help, err := helpTexts(root)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	if err := promRegistry.Register(newCollector(mem, help)); err != nil {
		return nil, fmt.Errorf("failed to register collector: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           newMux(cfg.Path, promRegistry, mem),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("registered prometheus collector", "metrics", len(help))

	return &PrometheusExporter{
		addr:         addr,
		path:         cfg.Path,
		server:       server,
		promRegistry: promRegistry,
	}, nil
}

// Handler returns the HTTP handler serving the scrape and submissions paths.
func (e *PrometheusExporter) Handler() http.Handler {
	return e.server.Handler
}

// Start serves HTTP requests until ctx is cancelled.
func (e *PrometheusExporter) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting prometheus exporter", "addr", e.addr, "path", e.path)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return e.Stop()
	}
}

// Stop gracefully stops the exporter.
func (e *PrometheusExporter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down prometheus exporter")
	return e.server.Shutdown(ctx)
}

// helpTexts maps the base identifier of every metric in root to its
// description.
func helpTexts(root *loader.Namespace) (map[string]string, error) {
	help := make(map[string]string)
	err := root.Walk(func(path string, obj loader.Object) error {
		m, err := obj.Metric()
		if err != nil {
			return nil
		}
		if id, ok := m.(metrics.Identified); ok {
			help[id.Meta().BaseIdentifier()] = m.Doc()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect metric descriptions: %w", err)
	}
	return help, nil
}
