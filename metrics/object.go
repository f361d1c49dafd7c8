package metrics

import "fmt"

// ObjectMetric records a structured value of a generated record type as JSON.
type ObjectMetric struct {
	base
	root *RecordType
}

// NewObject creates an object metric whose values must be of type root.
func NewObject(meta CommonMetricData, root *RecordType, eng Engine) *ObjectMetric {
	return &ObjectMetric{base: newBase(meta, eng), root: root}
}

func (m *ObjectMetric) Kind() Kind { return KindObject }

// Root returns the record type values must have.
func (m *ObjectMetric) Root() *RecordType { return m.root }

// Set serializes r and records it.
func (m *ObjectMetric) Set(r *Record) error {
	if r == nil || r.typ != m.root {
		return fmt.Errorf("%w: %s requires a %s record", ErrInvalidValue, m.meta.Identifier(), m.root.name)
	}
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", m.meta.Identifier(), err)
	}
	return m.record(KindObject, OpSet, string(data))
}

// TestGetValue returns the stored JSON document.
func (m *ObjectMetric) TestGetValue(ping string) (string, bool) {
	return testValueAs[string](&m.base, ping)
}
