package metrics_test

import (
	"math"
	"testing"

	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/require"
)

func clickExtras() *metrics.ExtrasType {
	return metrics.NewExtrasType("ClickExtra", []metrics.ExtraField{
		{Name: "count", Type: metrics.ExtraQuantity},
		{Name: "enabled", Type: metrics.ExtraBoolean},
		{Name: "object_id", Type: metrics.ExtraString},
	})
}

func TestExtrasSerialize(t *testing.T) {
	extras, err := clickExtras().New(map[string]any{
		"count":     42,
		"enabled":   false,
		"object_id": "button-1",
	})
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		"count":     "42",
		"enabled":   "false",
		"object_id": "button-1",
	}, extras.Serialize())
}

func TestExtrasSerializeOmitsUnset(t *testing.T) {
	extras, err := clickExtras().New(map[string]any{"enabled": true})
	require.NoError(t, err)

	require.Equal(t, map[string]string{"enabled": "true"}, extras.Serialize())
}

func TestExtrasRejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   error
	}{
		{"unknown key", map[string]any{"color": "red"}, metrics.ErrUnknownExtra},
		{"string for boolean", map[string]any{"enabled": "true"}, metrics.ErrExtraType},
		{"bool for quantity", map[string]any{"count": true}, metrics.ErrExtraType},
		{"float for quantity", map[string]any{"count": 1.5}, metrics.ErrExtraType},
		{"int for string", map[string]any{"object_id": 7}, metrics.ErrExtraType},
		{"uint64 above int64 range", map[string]any{"count": uint64(math.MaxUint64)}, metrics.ErrExtraType},
		{"uint above int64 range", map[string]any{"count": uint(math.MaxInt64) + 1}, metrics.ErrExtraType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extras, err := clickExtras().New(tt.values)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, extras)
		})
	}
}

func TestExtrasSetValidates(t *testing.T) {
	extras, err := clickExtras().New(nil)
	require.NoError(t, err)

	require.ErrorIs(t, extras.Set("count", "many"), metrics.ErrExtraType)
	require.NoError(t, extras.Set("count", uint64(math.MaxInt64)))
	require.Equal(t, "9223372036854775807", extras.Serialize()["count"])
	require.NoError(t, extras.Set("count", uint8(3)))

	v, ok := extras.Get("count")
	require.True(t, ok)
	require.Equal(t, int64(3), v)
}
