package exporter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/loader"
	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
$schema: moz://mozilla.org/schemas/glean/metrics/2-0-0

net:
  requests:
    type: counter
    description: Requests sent.
    send_in_pings: [baseline]
  errors:
    type: labeled_counter
    description: Errors by cause.
    labels: [timeout]
  payload:
    type: memory_distribution
    description: Payload sizes.
  protocol:
    type: string
    description: Negotiated protocol.
`

const testPings = `
$schema: moz://mozilla.org/schemas/glean/pings/2-0-0

baseline:
  description: Baseline ping.
`

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusExporterScrape(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.yaml")
	pingsPath := filepath.Join(dir, "pings.yaml")
	require.NoError(t, os.WriteFile(metricsPath, []byte(testSchema), 0o644))
	require.NoError(t, os.WriteFile(pingsPath, []byte(testPings), 0o644))

	mem := engine.NewMemory()
	root, err := loader.LoadMetrics([]string{metricsPath, pingsPath}, loader.WithEngine(mem))
	require.NoError(t, err)

	exp, err := NewPrometheusExporter(&config.PrometheusExportConfig{
		Enabled: true,
		Port:    config.DefaultPrometheusPort,
		Path:    config.DefaultPrometheusPath,
	}, mem, root)
	require.NoError(t, err)

	requests, err := loader.MetricAs[*metrics.CounterMetric](root, "net.requests")
	require.NoError(t, err)
	require.NoError(t, requests.Add(5))

	errs, err := loader.MetricAs[*metrics.LabeledCounterMetric](root, "net.errors")
	require.NoError(t, err)
	require.NoError(t, errs.Get("timeout").Add(2))

	payload, err := loader.MetricAs[*metrics.MemoryDistributionMetric](root, "net.payload")
	require.NoError(t, err)
	require.NoError(t, payload.Accumulate(10))
	require.NoError(t, payload.Accumulate(20))

	protocol, err := loader.MetricAs[*metrics.StringMetric](root, "net.protocol")
	require.NoError(t, err)
	require.NoError(t, protocol.Set("h2"))

	body := scrape(t, exp.Handler())
	assert.Contains(t, body, "# HELP glean_net_requests_total Requests sent.")
	assert.Contains(t, body, "glean_net_requests_total 5")
	assert.Contains(t, body, `glean_net_errors_total{label="timeout"} 2`)
	assert.Contains(t, body, "glean_net_payload_sum 30")
	assert.Contains(t, body, "glean_net_payload_count 2")
	assert.NotContains(t, body, "glean_net_protocol")

	pings, err := loader.LoadPings([]string{metricsPath, pingsPath}, loader.WithEngine(mem))
	require.NoError(t, err)
	baseline, err := loader.MetricAs[*metrics.PingType](pings, "baseline")
	require.NoError(t, err)
	require.NoError(t, baseline.Submit(""))

	body = scrape(t, exp.Handler())
	assert.Contains(t, body, `glean_ping_submissions_total{ping="baseline"} 1`)
	// Ping lifetime counter was cleared by the submission
	assert.NotContains(t, body, "glean_net_requests_total 5")

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.SubmissionsPath+"?ping=baseline", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var subs []struct {
		Ping    string         `json:"ping"`
		Metrics map[string]any `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "baseline", subs[0].Ping)
	assert.EqualValues(t, 5, subs[0].Metrics["net.requests"])

	rec = httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.SubmissionsPath+"?ping=events", nil))
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, config.SubmissionsPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPromName(t *testing.T) {
	tests := map[string]string{
		"net.requests":      "glean_net_requests",
		"a.b.requests-sent": "glean_a_b_requests_sent",
		"ui.Click2":         "glean_ui_Click2",
	}
	for in, want := range tests {
		assert.Equal(t, want, promName(in), in)
	}
}
