package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPrometheusPort = 9090
	DefaultPrometheusPath = "/metrics"

	DefaultOTELPushInterval = 10 * time.Second
	DefaultOTELTimeout      = 5 * time.Second
	DefaultOTELHost         = "localhost"
	DefaultServiceName      = "gleanbox"

	// SubmissionsPath is where the Prometheus server lists submitted pings.
	SubmissionsPath = "/submissions"
)

// Transport selects the OTLP protocol.
type Transport string

const (
	TransportGRPC Transport = "grpc"
	TransportHTTP Transport = "http"
)

// defaultPort is the collector port conventionally used with t.
func (t Transport) defaultPort() int {
	if t == TransportHTTP {
		return 4318
	}
	return 4317
}

// ExportConfig selects where recorded values go. Both exporters may be
// enabled at once.
type ExportConfig struct {
	Prometheus *PrometheusExportConfig
	OTEL       *OTELExportConfig
}

// PrometheusExportConfig serves recorded values for scraping.
type PrometheusExportConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// OTELExportConfig pushes recorded values over OTLP.
type OTELExportConfig struct {
	Enabled   bool
	Transport Transport
	Host      string
	Port      int
	Interval  IntervalConfig
	Resource  map[string]string
	Headers   map[string]string
}

// IntervalConfig is the OTLP push period and per-export timeout.
type IntervalConfig struct {
	Push    time.Duration
	Timeout time.Duration
}

// PrometheusEnabled reports whether the scrape endpoint is served.
func (e *ExportConfig) PrometheusEnabled() bool {
	return e.Prometheus != nil && e.Prometheus.Enabled
}

// OTELEnabled reports whether OTLP push is configured.
func (e *ExportConfig) OTELEnabled() bool {
	return e.OTEL != nil && e.OTEL.Enabled
}

// Validate fills defaults for every enabled exporter. With no export section
// at all, Prometheus is served on its default port.
func (e *ExportConfig) Validate() error {
	if e.Prometheus == nil && e.OTEL == nil {
		e.Prometheus = &PrometheusExportConfig{Enabled: true}
	}

	ctx := resolveContext{}
	if e.PrometheusEnabled() {
		if err := e.Prometheus.validate(ctx.push("exporter", "prometheus")); err != nil {
			return err
		}
	}
	if e.OTELEnabled() {
		if err := e.OTEL.validate(ctx.push("exporter", "otel")); err != nil {
			return err
		}
	}

	if !e.PrometheusEnabled() && !e.OTELEnabled() {
		return fmt.Errorf("at least one exporter must be enabled")
	}
	return nil
}

func (c *PrometheusExportConfig) validate(ctx resolveContext) error {
	if c.Port == 0 {
		c.Port = DefaultPrometheusPort
	}
	if c.Path == "" {
		c.Path = DefaultPrometheusPath
	}

	if err := checkPort(c.Port); err != nil {
		return ctx.error(err.Error())
	}
	if !strings.HasPrefix(c.Path, "/") {
		return ctx.error(fmt.Sprintf("path %q must start with /", c.Path))
	}
	if c.Path == SubmissionsPath {
		return ctx.error(fmt.Sprintf("path %q is reserved", c.Path))
	}
	return nil
}

func (c *OTELExportConfig) validate(ctx resolveContext) error {
	switch c.Transport {
	case "":
		c.Transport = TransportGRPC
	case TransportGRPC, TransportHTTP:
	default:
		return ctx.error(fmt.Sprintf("invalid transport: %s (must be grpc or http)", c.Transport))
	}

	if c.Host == "" {
		c.Host = DefaultOTELHost
	}
	if c.Port == 0 {
		c.Port = c.Transport.defaultPort()
	}
	if err := checkPort(c.Port); err != nil {
		return ctx.error(err.Error())
	}

	if c.Interval.Push == 0 {
		c.Interval.Push = DefaultOTELPushInterval
	}
	if c.Interval.Timeout == 0 {
		c.Interval.Timeout = min(DefaultOTELTimeout, c.Interval.Push)
	}
	if c.Interval.Push < 0 || c.Interval.Timeout < 0 {
		return ctx.error("interval durations must be positive")
	}
	if c.Interval.Timeout > c.Interval.Push {
		return ctx.error(fmt.Sprintf("timeout %s exceeds push interval %s", c.Interval.Timeout, c.Interval.Push))
	}

	for k := range c.Headers {
		if strings.TrimSpace(k) == "" {
			return ctx.error("header names cannot be empty")
		}
	}

	if c.Resource == nil {
		c.Resource = make(map[string]string)
	}
	if _, ok := c.Resource["service.name"]; !ok {
		c.Resource["service.name"] = DefaultServiceName
	}
	return nil
}

// Endpoint returns the collector address as host:port.
func (c *OTELExportConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func checkPort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
