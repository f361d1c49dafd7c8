package metrics_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/require"
)

func TestLabeledCounterStaticLabels(t *testing.T) {
	mem := engine.NewMemory()
	lc := metrics.NewLabeledCounter(metrics.LabeledMetricData{Meta: meta("errors")}, []string{"timeout", "refused"}, mem)

	require.NoError(t, lc.Get("timeout").Add(2))
	require.NoError(t, lc.Get("unknown").Add(1))
	require.NoError(t, lc.Get("other-unknown").Add(1))

	v, ok := lc.Get("timeout").TestGetValue("")
	require.True(t, ok)
	require.Equal(t, int64(2), v)

	other, ok := lc.Get(metrics.OtherLabel).TestGetValue("")
	require.True(t, ok)
	require.Equal(t, int64(2), other)

	require.Equal(t, "test.errors/timeout", lc.Get("timeout").Meta().Identifier())
}

func TestLabeledDynamicLabelLimit(t *testing.T) {
	lb := metrics.NewLabeledBoolean(metrics.LabeledMetricData{Meta: meta("features")}, nil, engine.NewMemory())

	for i := range 16 {
		require.Equal(t, fmt.Sprintf("f%d", i), lb.Get(fmt.Sprintf("f%d", i)).Meta().Label())
	}
	require.Equal(t, metrics.OtherLabel, lb.Get("f16").Meta().Label())
	require.Equal(t, "f3", lb.Get("f3").Meta().Label())
}

func TestLabeledInvalidLabels(t *testing.T) {
	ls := metrics.NewLabeledString(metrics.LabeledMetricData{Meta: meta("names")}, nil, engine.NewMemory())

	require.Equal(t, metrics.OtherLabel, ls.Get("").Meta().Label())
	require.Equal(t, metrics.OtherLabel, ls.Get(strings.Repeat("a", 112)).Meta().Label())
	require.Equal(t, metrics.OtherLabel, ls.Get("tab\there").Meta().Label())
	require.Equal(t, metrics.KindLabeledString, ls.Kind())
}
