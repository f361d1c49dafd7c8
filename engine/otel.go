package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neox5/gleanbox/metrics"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const pingSubmissionsName = "glean.ping.submissions"

// OTEL forwards numeric recordings to OpenTelemetry instruments on a meter.
// Counters map to Int64Counter, single values to Int64Gauge, distributions
// to Int64Histogram and events to a counter of occurrences. Kinds without a
// numeric value are dropped. OTEL is write-only: TestGetValue never finds
// anything.
type OTEL struct {
	meter otelmetric.Meter
	ctx   context.Context

	mu          sync.Mutex
	counters    map[string]otelmetric.Int64Counter
	gauges      map[string]otelmetric.Int64Gauge
	histograms  map[string]otelmetric.Int64Histogram
	submissions otelmetric.Int64Counter
}

// NewOTEL creates an engine recording on meter.
func NewOTEL(meter otelmetric.Meter) (*OTEL, error) {
	submissions, err := meter.Int64Counter(
		pingSubmissionsName,
		otelmetric.WithDescription("Number of submitted pings"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %q: %w", pingSubmissionsName, err)
	}
	return &OTEL{
		meter:       meter,
		ctx:         context.Background(),
		counters:    make(map[string]otelmetric.Int64Counter),
		gauges:      make(map[string]otelmetric.Int64Gauge),
		histograms:  make(map[string]otelmetric.Int64Histogram),
		submissions: submissions,
	}, nil
}

// Record translates r into an instrument measurement.
func (o *OTEL) Record(r metrics.Recording) error {
	if r.Meta == nil {
		return fmt.Errorf("%w: recording without metadata", ErrUnsupportedValue)
	}
	name := r.Meta.BaseIdentifier()
	attrs := otelmetric.WithAttributes(attributesOf(r.Meta)...)

	switch r.Kind {
	case metrics.KindCounter:
		n, ok := r.Value.(int64)
		if !ok {
			return fmt.Errorf("%w: counter %T", ErrUnsupportedValue, r.Value)
		}
		c, err := o.counter(name)
		if err != nil {
			return err
		}
		c.Add(o.ctx, n, attrs)

	case metrics.KindEvent:
		c, err := o.counter(name)
		if err != nil {
			return err
		}
		c.Add(o.ctx, 1, attrs)

	case metrics.KindQuantity, metrics.KindTimespan, metrics.KindBoolean:
		var n int64
		switch v := r.Value.(type) {
		case int64:
			n = v
		case bool:
			if v {
				n = 1
			}
		default:
			return fmt.Errorf("%w: %s %T", ErrUnsupportedValue, r.Kind, r.Value)
		}
		g, err := o.gauge(name)
		if err != nil {
			return err
		}
		g.Record(o.ctx, n, attrs)

	case metrics.KindTimingDistribution, metrics.KindMemoryDistribution:
		samples, ok := r.Value.([]int64)
		if !ok {
			return fmt.Errorf("%w: %s %T", ErrUnsupportedValue, r.Kind, r.Value)
		}
		h, err := o.histogram(name)
		if err != nil {
			return err
		}
		for _, s := range samples {
			h.Record(o.ctx, s, attrs)
		}

	default:
		slog.Debug("otel engine dropped recording", "metric", name, "kind", r.Kind)
	}
	return nil
}

// TestGetValue always reports no value.
func (o *OTEL) TestGetValue(*metrics.CommonMetricData, string) (any, bool) {
	return nil, false
}

// SubmitPing counts the submission by ping and reason.
func (o *OTEL) SubmitPing(name, reason string) error {
	o.submissions.Add(o.ctx, 1, otelmetric.WithAttributes(
		attribute.String("ping", name),
		attribute.String("reason", reason),
	))
	return nil
}

func (o *OTEL) counter(name string) (otelmetric.Int64Counter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.counters[name]; ok {
		return c, nil
	}
	c, err := o.meter.Int64Counter(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %q: %w", name, err)
	}
	o.counters[name] = c
	slog.Debug("registered otel instrument", "name", name, "type", "counter")
	return c, nil
}

func (o *OTEL) gauge(name string) (otelmetric.Int64Gauge, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if g, ok := o.gauges[name]; ok {
		return g, nil
	}
	g, err := o.meter.Int64Gauge(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %q: %w", name, err)
	}
	o.gauges[name] = g
	slog.Debug("registered otel instrument", "name", name, "type", "gauge")
	return g, nil
}

func (o *OTEL) histogram(name string) (otelmetric.Int64Histogram, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if h, ok := o.histograms[name]; ok {
		return h, nil
	}
	h, err := o.meter.Int64Histogram(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %q: %w", name, err)
	}
	o.histograms[name] = h
	slog.Debug("registered otel instrument", "name", name, "type", "histogram")
	return h, nil
}

// attributesOf returns the dynamic label of a labeled metric, if any.
func attributesOf(meta *metrics.CommonMetricData) []attribute.KeyValue {
	if meta.DynamicLabel == nil {
		return nil
	}
	return []attribute.KeyValue{attribute.String("label", *meta.DynamicLabel)}
}
