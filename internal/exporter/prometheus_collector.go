package exporter

import (
	"log/slog"
	"strings"
	"time"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const namePrefix = "glean_"

var pingSubmissionsDesc = prometheus.NewDesc(
	"glean_ping_submissions_total",
	"Number of submitted pings",
	[]string{"ping"},
	nil,
)

// collector implements prometheus.Collector over Memory engine snapshots.
// Descriptors depend on what has been recorded, so the collector is
// unchecked: Describe sends nothing.
type collector struct {
	memory *engine.Memory
	help   map[string]string
}

// newCollector creates a collector reading mem. help maps base identifiers
// to metric descriptions.
func newCollector(mem *engine.Memory, help map[string]string) *collector {
	return &collector{memory: mem, help: help}
}

// Describe sends nothing.
func (c *collector) Describe(chan<- *prometheus.Desc) {}

// Collect reads a snapshot of recorded values on each scrape.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	descs := make(map[string]*prometheus.Desc)

	for _, e := range c.memory.Snapshot() {
		name, valueType, ok := promType(e.Kind)
		if !ok {
			continue
		}
		fqName := promName(e.Meta.BaseIdentifier()) + name

		var labelNames, labelValues []string
		if e.Meta.DynamicLabel != nil {
			labelNames = []string{"label"}
			labelValues = []string{*e.Meta.DynamicLabel}
		}

		desc, ok := descs[fqName]
		if !ok {
			desc = prometheus.NewDesc(fqName, c.helpFor(e.Meta.BaseIdentifier()), labelNames, nil)
			descs[fqName] = desc
		}

		var (
			m   prometheus.Metric
			err error
		)
		switch v := e.Value.(type) {
		case int64:
			m, err = prometheus.NewConstMetric(desc, valueType, float64(v), labelValues...)
		case bool:
			f := 0.0
			if v {
				f = 1
			}
			m, err = prometheus.NewConstMetric(desc, valueType, f, labelValues...)
		case time.Time:
			m, err = prometheus.NewConstMetric(desc, valueType, float64(v.Unix()), labelValues...)
		case []int64:
			var sum float64
			for _, s := range v {
				sum += float64(s)
			}
			m, err = prometheus.NewConstSummary(desc, uint64(len(v)), sum, nil, labelValues...)
		case []metrics.RecordedEvent:
			m, err = prometheus.NewConstMetric(desc, valueType, float64(len(v)), labelValues...)
		default:
			continue
		}
		if err != nil {
			slog.Debug("skipping prometheus metric", "name", fqName, "error", err)
			continue
		}
		ch <- m
	}

	counts := make(map[string]int)
	for _, s := range c.memory.Submissions() {
		counts[s.Ping]++
	}
	for ping, n := range counts {
		ch <- prometheus.MustNewConstMetric(pingSubmissionsDesc, prometheus.CounterValue, float64(n), ping)
	}
}

func (c *collector) helpFor(id string) string {
	if h, ok := c.help[id]; ok && h != "" {
		return h
	}
	return id
}

// promType maps a metric kind to a Prometheus name suffix and value type.
func promType(kind metrics.Kind) (string, prometheus.ValueType, bool) {
	switch kind {
	case metrics.KindCounter:
		return "_total", prometheus.CounterValue, true
	case metrics.KindEvent:
		return "_events_total", prometheus.CounterValue, true
	case metrics.KindQuantity, metrics.KindBoolean, metrics.KindTimespan:
		return "", prometheus.GaugeValue, true
	case metrics.KindDatetime:
		return "_timestamp_seconds", prometheus.GaugeValue, true
	case metrics.KindTimingDistribution, metrics.KindMemoryDistribution:
		return "", prometheus.UntypedValue, true
	default:
		return "", 0, false
	}
}

// promName maps "category.name" to a valid Prometheus metric name.
func promName(id string) string {
	return namePrefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
