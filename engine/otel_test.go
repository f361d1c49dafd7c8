package engine

import (
	"context"
	"testing"

	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestOTELRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	o, err := NewOTEL(provider.Meter("test"))
	require.NoError(t, err)

	label := "timeout"
	labeled := &metrics.CommonMetricData{Category: "net", Name: "errors", DynamicLabel: &label}
	require.NoError(t, o.Record(metrics.Recording{Meta: labeled, Kind: metrics.KindCounter, Op: metrics.OpAdd, Value: int64(2)}))

	size := &metrics.CommonMetricData{Category: "net", Name: "size"}
	require.NoError(t, o.Record(metrics.Recording{Meta: size, Kind: metrics.KindQuantity, Op: metrics.OpSet, Value: int64(42)}))

	dist := &metrics.CommonMetricData{Category: "net", Name: "latency"}
	require.NoError(t, o.Record(metrics.Recording{Meta: dist, Kind: metrics.KindTimingDistribution, Op: metrics.OpAccumulate, Value: []int64{10, 20}}))

	text := &metrics.CommonMetricData{Category: "net", Name: "proto"}
	require.NoError(t, o.Record(metrics.Recording{Meta: text, Kind: metrics.KindString, Op: metrics.OpSet, Value: "h2"}))

	require.NoError(t, o.SubmitPing("baseline", "active"))

	got := collect(t, reader)

	sum, ok := got["net.errors"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	v, ok := sum.DataPoints[0].Attributes.Value(attribute.Key("label"))
	require.True(t, ok)
	assert.Equal(t, "timeout", v.AsString())

	gauge, ok := got["net.size"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(42), gauge.DataPoints[0].Value)

	hist, ok := got["net.latency"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, int64(30), hist.DataPoints[0].Sum)

	assert.NotContains(t, got, "net.proto")
	assert.Contains(t, got, pingSubmissionsName)

	_, ok = o.TestGetValue(size, "")
	assert.False(t, ok)

	err = o.Record(metrics.Recording{Meta: size, Kind: metrics.KindQuantity, Op: metrics.OpSet, Value: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
