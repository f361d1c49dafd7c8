package metrics_test

import (
	"testing"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/metrics"
	"github.com/stretchr/testify/require"
)

func TestReasonCodes(t *testing.T) {
	codes := metrics.NewReasonCodes("BaselineReasonCodes", []string{"active", "dirty-startup", "inactive"})

	require.Equal(t, 3, codes.Len())
	for name, want := range map[string]int{"ACTIVE": 0, "DIRTY_STARTUP": 1, "INACTIVE": 2} {
		v, ok := codes.Value(name)
		require.True(t, ok, name)
		require.Equal(t, want, v, name)
	}

	code, ok := codes.Code(1)
	require.True(t, ok)
	require.Equal(t, metrics.ReasonCode{Name: "DIRTY_STARTUP", Value: 1, Reason: "dirty-startup"}, code)

	_, ok = codes.Code(3)
	require.False(t, ok)
}

func TestPingSubmit(t *testing.T) {
	mem := engine.NewMemory()
	ping := metrics.NewPing(metrics.PingOptions{
		Name:        "baseline",
		Enabled:     true,
		ReasonCodes: []string{"active", "dirty-startup"},
	}, mem)

	require.NoError(t, ping.Submit("active"))
	require.NoError(t, ping.SubmitCode(metrics.ReasonCode{Name: "DIRTY_STARTUP", Value: 1, Reason: "dirty-startup"}))
	require.ErrorIs(t, ping.Submit("overdue"), metrics.ErrInvalidValue)

	ping.SetEnabled(false)
	require.NoError(t, ping.Submit(""))

	subs := mem.Submissions()
	require.Len(t, subs, 2)
	require.Equal(t, "active", subs[0].Reason)
	require.Equal(t, "dirty-startup", subs[1].Reason)
}
