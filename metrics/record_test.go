package metrics_test

import (
	"math"
	"testing"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/require"
)

// threadsType builds an array of objects holding a nested frame array.
func threadsType() (*metrics.RecordType, *metrics.RecordType) {
	frames := metrics.NewArrayType("ThreadsItemFrames", metrics.FieldType{Scalar: metrics.ScalarString})
	thread := metrics.NewObjectType("ThreadsItem", []metrics.Field{
		{Name: "name", Type: metrics.FieldType{Scalar: metrics.ScalarString}},
		{Name: "crashed", Type: metrics.FieldType{Scalar: metrics.ScalarBoolean}},
		{Name: "frames", Type: metrics.FieldType{Record: frames}},
	})
	return metrics.NewArrayType("Threads", metrics.FieldType{Record: thread}), thread
}

func TestRecordFieldsStartAbsent(t *testing.T) {
	_, thread := threadsType()
	r := thread.New()

	_, ok := r.Get("name")
	require.False(t, ok)
	require.Equal(t, 0, r.Len())

	data, err := r.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}

func TestRecordTypeChecks(t *testing.T) {
	threads, thread := threadsType()
	r := thread.New()

	require.ErrorIs(t, r.Set("name", 3), metrics.ErrFieldType)
	require.ErrorIs(t, r.Set("missing", "x"), metrics.ErrFieldType)
	require.ErrorIs(t, r.Set("frames", threads.New()), metrics.ErrFieldType)
	require.ErrorIs(t, r.Append("x"), metrics.ErrFieldType)

	require.NoError(t, r.Set("name", "main"))
	require.NoError(t, r.Set("name", nil))
	_, ok := r.Get("name")
	require.False(t, ok)
}

func TestRecordNumberRange(t *testing.T) {
	stats := metrics.NewObjectType("StatsObject", []metrics.Field{
		{Name: "n", Type: metrics.FieldType{Scalar: metrics.ScalarNumber}},
	})

	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"int", 42, 42, true},
		{"negative int64", int64(-7), -7, true},
		{"max int64 as uint64", uint64(math.MaxInt64), math.MaxInt64, true},
		{"uint64 above int64 range", uint64(1) << 63, 0, false},
		{"max uint64", uint64(math.MaxUint64), 0, false},
		{"uint above int64 range", uint(math.MaxInt64) + 1, 0, false},
		{"float", 1.5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := stats.New()
			err := r.Set("n", tt.value)
			if !tt.ok {
				require.ErrorIs(t, err, metrics.ErrFieldType)
				require.Equal(t, 0, r.Len())
				return
			}
			require.NoError(t, err)
			v, ok := r.Get("n")
			require.True(t, ok)
			require.Equal(t, tt.want, v)
		})
	}
}

func TestObjectMetricRecordsJSON(t *testing.T) {
	threads, thread := threadsType()
	mem := engine.NewMemory()
	obj := metrics.NewObject(meta("threads"), threads, mem)

	frames := thread.Fields()[2].Type.Record.New()
	require.NoError(t, frames.Append("main.go:10"))

	item := thread.New()
	require.NoError(t, item.Set("name", "main"))
	require.NoError(t, item.Set("crashed", false))
	require.NoError(t, item.Set("frames", frames))

	value := threads.New()
	require.NoError(t, value.Append(item))

	require.ErrorIs(t, obj.Set(item), metrics.ErrInvalidValue)
	require.NoError(t, obj.Set(value))

	got, ok := obj.TestGetValue("")
	require.True(t, ok)
	require.JSONEq(t, `[{"name":"main","crashed":false,"frames":["main.go:10"]}]`, got)
}
