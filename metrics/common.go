package metrics

// CommonMetricData holds the metadata shared by every non-ping metric.
type CommonMetricData struct {
	Category     string
	Name         string
	SendInPings  []string
	Lifetime     Lifetime
	Disabled     bool
	DynamicLabel *string
}

// Common implements MetricData.
func (m CommonMetricData) Common() CommonMetricData {
	return m
}

// BaseIdentifier returns "category.name", or just the name for an empty category.
func (m *CommonMetricData) BaseIdentifier() string {
	if m.Category == "" {
		return m.Name
	}
	return m.Category + "." + m.Name
}

// Identifier returns the base identifier with the dynamic label appended, if any.
func (m *CommonMetricData) Identifier() string {
	if m.DynamicLabel == nil {
		return m.BaseIdentifier()
	}
	return m.BaseIdentifier() + "/" + *m.DynamicLabel
}

// Label returns the dynamic label, or "" for unlabeled metrics.
func (m *CommonMetricData) Label() string {
	if m.DynamicLabel == nil {
		return ""
	}
	return *m.DynamicLabel
}

// defaultPing returns the ping test values are read from when none is given.
func (m *CommonMetricData) defaultPing() string {
	if len(m.SendInPings) == 0 {
		return ""
	}
	return m.SendInPings[0]
}

// withLabel returns a copy of the metadata scoped to one label.
func (m CommonMetricData) withLabel(label string) CommonMetricData {
	m.SendInPings = append([]string(nil), m.SendInPings...)
	m.DynamicLabel = &label
	return m
}

// LabeledMetricData wraps the metadata handed to labeled metric constructors.
type LabeledMetricData struct {
	Meta CommonMetricData
}

// Common implements MetricData.
func (d LabeledMetricData) Common() CommonMetricData {
	return d.Meta
}

// MetricData is the metadata group a metric constructor accepts: either a
// plain CommonMetricData or a LabeledMetricData wrapper.
type MetricData interface {
	Common() CommonMetricData
}
