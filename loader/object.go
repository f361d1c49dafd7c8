package loader

import (
	"fmt"

	"github.com/neox5/gleanbox/metrics"
)

// ObjectKind tags the variant held by an Object.
type ObjectKind int

const (
	// ObjectMetric is a primary metric instance.
	ObjectMetric ObjectKind = iota
	// ObjectUnsupported stands in for a metric of an unimplemented kind.
	ObjectUnsupported
	// ObjectExtras is the extras record type of an event.
	ObjectExtras
	// ObjectReasonCodes is the reason code enumeration of a ping.
	ObjectReasonCodes
	// ObjectRecord is a record type generated for an object metric.
	ObjectRecord
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectMetric:
		return "metric"
	case ObjectUnsupported:
		return "unsupported"
	case ObjectExtras:
		return "extras"
	case ObjectReasonCodes:
		return "reason_codes"
	case ObjectRecord:
		return "record"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

// Object is one leaf of a Namespace.
type Object struct {
	kind        ObjectKind
	doc         string
	metric      metrics.Metric
	unsupported string
	extras      *metrics.ExtrasType
	reasons     *metrics.ReasonCodes
	record      *metrics.RecordType
}

func metricObject(m metrics.Metric) Object {
	return Object{kind: ObjectMetric, metric: m, doc: m.Doc()}
}

func unsupportedObject(kind, doc string) Object {
	return Object{kind: ObjectUnsupported, unsupported: kind, doc: doc}
}

func extrasObject(t *metrics.ExtrasType) Object {
	return Object{kind: ObjectExtras, extras: t}
}

func reasonCodesObject(r *metrics.ReasonCodes) Object {
	return Object{kind: ObjectReasonCodes, reasons: r}
}

func recordObject(t *metrics.RecordType) Object {
	return Object{kind: ObjectRecord, record: t}
}

// Kind returns the variant tag.
func (o Object) Kind() ObjectKind { return o.kind }

// Doc returns the description of a metric or placeholder.
func (o Object) Doc() string { return o.doc }

// Metric returns the primary instance. Using a placeholder yields an
// *metrics.UnsupportedKindError naming the kind.
func (o Object) Metric() (metrics.Metric, error) {
	switch o.kind {
	case ObjectMetric:
		return o.metric, nil
	case ObjectUnsupported:
		return nil, &metrics.UnsupportedKindError{Kind: o.unsupported}
	default:
		return nil, fmt.Errorf("%s object is not a metric", o.kind)
	}
}

// UnsupportedKind returns the kind name of a placeholder.
func (o Object) UnsupportedKind() (string, bool) {
	return o.unsupported, o.kind == ObjectUnsupported
}

// Extras returns the extras record type of an event.
func (o Object) Extras() (*metrics.ExtrasType, bool) {
	return o.extras, o.kind == ObjectExtras
}

// ReasonCodes returns the reason code enumeration of a ping.
func (o Object) ReasonCodes() (*metrics.ReasonCodes, bool) {
	return o.reasons, o.kind == ObjectReasonCodes
}

// Record returns a generated record type.
func (o Object) Record() (*metrics.RecordType, bool) {
	return o.record, o.kind == ObjectRecord
}
