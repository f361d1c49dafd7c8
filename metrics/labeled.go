package metrics

import (
	"fmt"
	"slices"
	"sync"
)

const (
	// OtherLabel collects recordings made with unknown or invalid labels.
	OtherLabel = "__other__"

	maxLabelLength   = 111
	maxDynamicLabels = 16
)

// labeled fans a metric out into one sub-metric per label.
type labeled[T Metric] struct {
	meta     CommonMetricData
	kind     Kind
	doc      string
	labels   []string
	newChild func(meta CommonMetricData) T

	mu       sync.Mutex
	children map[string]T
}

func newLabeled[T Metric](kind Kind, data LabeledMetricData, labels []string, newChild func(CommonMetricData) T) *labeled[T] {
	return &labeled[T]{
		meta:     data.Meta,
		kind:     kind,
		labels:   slices.Clone(labels),
		newChild: newChild,
		children: make(map[string]T),
	}
}

func (l *labeled[T]) Kind() Kind { return l.kind }

// Doc returns the metric description.
func (l *labeled[T]) Doc() string { return l.doc }

// SetDoc replaces the metric description.
func (l *labeled[T]) SetDoc(doc string) { l.doc = doc }

// Meta returns the unlabeled metadata.
func (l *labeled[T]) Meta() *CommonMetricData { return &l.meta }

// Labels returns the static label list, empty for dynamically labeled metrics.
func (l *labeled[T]) Labels() []string { return slices.Clone(l.labels) }

// Get returns the sub-metric for label. Labels outside the static list,
// invalid labels, and dynamic labels past the first 16 map to OtherLabel.
func (l *labeled[T]) Get(label string) T {
	l.mu.Lock()
	defer l.mu.Unlock()

	label = l.resolve(label)
	if child, ok := l.children[label]; ok {
		return child
	}
	child := l.newChild(l.meta.withLabel(label))
	l.children[label] = child
	return child
}

func (l *labeled[T]) resolve(label string) string {
	if len(l.labels) > 0 {
		if slices.Contains(l.labels, label) {
			return label
		}
		return OtherLabel
	}
	if validateLabel(label) != nil {
		return OtherLabel
	}
	if _, seen := l.children[label]; seen {
		return label
	}
	dynamic := len(l.children)
	if _, ok := l.children[OtherLabel]; ok {
		dynamic--
	}
	if dynamic >= maxDynamicLabels {
		return OtherLabel
	}
	return label
}

func validateLabel(label string) error {
	if label == "" || len(label) > maxLabelLength {
		return fmt.Errorf("%w: label length %d out of range", ErrInvalidValue, len(label))
	}
	for i := 0; i < len(label); i++ {
		if label[i] < 0x20 || label[i] > 0x7e {
			return fmt.Errorf("%w: label contains non-printable byte", ErrInvalidValue)
		}
	}
	return nil
}

// LabeledBooleanMetric is a boolean metric per label.
type LabeledBooleanMetric struct {
	*labeled[*BooleanMetric]
}

// NewLabeledBoolean creates a labeled boolean metric.
func NewLabeledBoolean(data LabeledMetricData, labels []string, eng Engine) *LabeledBooleanMetric {
	return &LabeledBooleanMetric{newLabeled(KindLabeledBoolean, data, labels, func(meta CommonMetricData) *BooleanMetric {
		return NewBoolean(meta, eng)
	})}
}

// LabeledCounterMetric is a counter per label.
type LabeledCounterMetric struct {
	*labeled[*CounterMetric]
}

// NewLabeledCounter creates a labeled counter metric.
func NewLabeledCounter(data LabeledMetricData, labels []string, eng Engine) *LabeledCounterMetric {
	return &LabeledCounterMetric{newLabeled(KindLabeledCounter, data, labels, func(meta CommonMetricData) *CounterMetric {
		return NewCounter(meta, eng)
	})}
}

// LabeledStringMetric is a string metric per label.
type LabeledStringMetric struct {
	*labeled[*StringMetric]
}

// NewLabeledString creates a labeled string metric.
func NewLabeledString(data LabeledMetricData, labels []string, eng Engine) *LabeledStringMetric {
	return &LabeledStringMetric{newLabeled(KindLabeledString, data, labels, func(meta CommonMetricData) *StringMetric {
		return NewString(meta, eng)
	})}
}
