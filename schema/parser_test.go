package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const metricsDoc = `
$schema: moz://mozilla.org/schemas/glean/metrics/2-0-0

network:
  requests-sent:
    type: counter
    description: Number of requests sent.
    expires: never

  latency:
    type: timing_distribution
    description: Request latency.
    time_unit: millisecond
    lifetime: application

ui.toolbar:
  click:
    type: event
    description: A toolbar click.
    extra_keys:
      object_id:
        description: The clicked button.
        type: string
      count:
        description: Clicks so far.
        type: quantity

  errors:
    type: labeled_counter
    description: Errors by kind.
    labels:
      - timeout
      - refused
    send_in_pings:
      - health
`

func TestParseMetrics(t *testing.T) {
	path := writeFile(t, "metrics.yaml", metricsDoc)

	result := NewYAMLParser().Parse([]string{path}, nil)
	require.Empty(t, result.Errors)
	require.Equal(t, 4, result.Len())
	require.Len(t, result.Categories, 2)

	network := result.Categories[0]
	require.Equal(t, "network", network.Name)
	require.Equal(t, "requests-sent", network.Metrics[0].Name)
	require.Equal(t, "counter", network.Metrics[0].Type)

	sent := network.Metrics[0]
	v, ok := sent.Attr(AttrSendInPings)
	require.True(t, ok)
	assert.Equal(t, []string{"metrics"}, v)
	v, _ = sent.Attr(AttrLifetime)
	assert.Equal(t, LifetimePing, v)
	v, _ = sent.Attr(AttrDisabled)
	assert.Equal(t, false, v)

	latency := network.Metrics[1]
	v, _ = latency.Attr(AttrTimeUnit)
	assert.Equal(t, TimeUnitMillisecond, v)
	v, _ = latency.Attr(AttrLifetime)
	assert.Equal(t, LifetimeApplication, v)

	toolbar := result.Categories[1]
	require.Equal(t, "ui.toolbar", toolbar.Name)

	click := toolbar.Metrics[0]
	assert.Equal(t, []ExtraKey{{Name: "count", Type: "quantity"}, {Name: "object_id", Type: "string"}}, click.ExtraKeys())
	v, _ = click.Attr(AttrSendInPings)
	assert.Equal(t, []string{"events"}, v)

	labeled := toolbar.Metrics[1]
	assert.True(t, labeled.Labeled())
	v, _ = labeled.Attr(AttrLabels)
	assert.Equal(t, []string{"timeout", "refused"}, v)
}

const pingsDoc = `
$schema: moz://mozilla.org/schemas/glean/pings/2-0-0

baseline:
  description: Sent on activity changes.
  include_client_id: true
  reasons:
    active: The user became active.
    dirty-startup: The previous session did not shut down cleanly.
  metadata:
    ping_schedule:
      - metrics

health:
  description: Health checks.
  enabled: false
`

func TestParsePings(t *testing.T) {
	path := writeFile(t, "pings.yaml", pingsDoc)

	result := NewYAMLParser().Parse([]string{path}, nil)
	require.Empty(t, result.Errors)
	require.Len(t, result.Categories, 1)
	require.Equal(t, PingsCategory, result.Categories[0].Name)

	baseline := result.Categories[0].Metrics[0]
	require.Equal(t, "ping", baseline.Type)
	require.Equal(t, []string{"active", "dirty-startup"}, baseline.ReasonCodes())

	v, _ := baseline.Attr(AttrIncludeClientID)
	assert.Equal(t, true, v)
	v, _ = baseline.Attr(AttrSchedulesPings)
	assert.Equal(t, []string{"metrics"}, v)
	v, _ = baseline.Attr(AttrPreciseTimestamps)
	assert.Equal(t, true, v)

	health := result.Categories[0].Metrics[1]
	v, _ = health.Attr(AttrEnabled)
	assert.Equal(t, false, v)
	assert.Empty(t, health.ReasonCodes())
}

func TestParseObjectStructure(t *testing.T) {
	path := writeFile(t, "metrics.yaml", `
crash:
  threads:
    type: object
    description: Crashed threads.
    structure:
      type: array
      items:
        type: object
        properties:
          name:
            type: string
          frames:
            type: array
            items:
              type: string
`)

	result := NewYAMLParser().Parse([]string{path}, nil)
	require.Empty(t, result.Errors)

	s := result.Categories[0].Metrics[0].Structure()
	require.NotNil(t, s)
	require.Equal(t, "array", s.Type)
	require.Equal(t, "object", s.Items.Type)
	require.Len(t, s.Items.Properties, 2)
	assert.Equal(t, "name", s.Items.Properties[0].Name)
	assert.Equal(t, "frames", s.Items.Properties[1].Name)
	assert.Equal(t, 4, s.Depth())
}

func TestParseCollectsErrors(t *testing.T) {
	path := writeFile(t, "metrics.yaml", `
Bad-Category:
  x:
    type: counter
    description: x

valid:
  no_type:
    description: Missing type.
  bad_lifetime:
    type: counter
    description: Bad lifetime.
    lifetime: forever
  extras_on_counter:
    type: counter
    description: Extras on a counter.
    extra_keys:
      a:
        type: string
`)

	result := NewYAMLParser().Parse([]string{path}, nil)
	require.Len(t, result.Errors, 4)
	require.Empty(t, result.Categories)

	assert.Contains(t, result.Errors[0], "invalid category name")
	assert.Contains(t, result.Errors[0], `in category "Bad-Category"`)
	assert.Contains(t, result.Errors[1], "type required")
	assert.Contains(t, result.Errors[1], `in metric "no_type"`)
	assert.Contains(t, result.Errors[2], "invalid lifetime")
	assert.Contains(t, result.Errors[3], "extra_keys only allowed on event metrics")
}

func TestParseDuplicateAcrossFiles(t *testing.T) {
	doc := `
network:
  sent:
    type: counter
    description: Sent.
`
	first := writeFile(t, "a.yaml", doc)
	second := writeFile(t, "b.yaml", doc)

	result := NewYAMLParser().Parse([]string{first, second}, nil)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "duplicate definition")
	assert.Contains(t, result.Errors[0], first)
}

func TestParseReservedCategory(t *testing.T) {
	path := writeFile(t, "metrics.yaml", `
glean.internal:
  sent:
    type: counter
    description: Sent.
`)

	result := NewYAMLParser().Parse([]string{path}, nil)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "category is reserved"))

	result = NewYAMLParser().Parse([]string{path}, map[string]any{OptionAllowReserved: true})
	require.Empty(t, result.Errors)
	require.Equal(t, 1, result.Len())
}

func TestParseExpires(t *testing.T) {
	path := writeFile(t, "metrics.yaml", `
app:
  old:
    type: counter
    description: Expired by date.
    expires: 2020-01-01
  future:
    type: counter
    description: Expires later.
    expires: 2030-01-01
  versioned:
    type: counter
    description: Expires by version.
    expires: 110
  gone:
    type: counter
    description: Explicitly expired.
    expires: expired
`)

	p := NewYAMLParser()
	p.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	result := p.Parse([]string{path}, map[string]any{OptionExpireByVersion: 120})
	require.Empty(t, result.Errors)

	disabled := make(map[string]bool)
	for _, d := range result.Categories[0].Metrics {
		v, _ := d.Attr(AttrDisabled)
		disabled[d.Name] = v.(bool)
	}
	assert.Equal(t, map[string]bool{
		"old":       true,
		"future":    false,
		"versioned": true,
		"gone":      true,
	}, disabled)
}

func TestParseMissingFile(t *testing.T) {
	result := NewYAMLParser().Parse([]string{filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to read schema file")
}
