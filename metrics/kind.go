package metrics

// Kind identifies the declared type of a metric as it appears in a schema.
type Kind string

const (
	KindBoolean            Kind = "boolean"
	KindCounter            Kind = "counter"
	KindDatetime           Kind = "datetime"
	KindEvent              Kind = "event"
	KindLabeledBoolean     Kind = "labeled_boolean"
	KindLabeledCounter     Kind = "labeled_counter"
	KindLabeledString      Kind = "labeled_string"
	KindMemoryDistribution Kind = "memory_distribution"
	KindObject             Kind = "object"
	KindPing               Kind = "ping"
	KindQuantity           Kind = "quantity"
	KindString             Kind = "string"
	KindStringList         Kind = "string_list"
	KindTimespan           Kind = "timespan"
	KindTimingDistribution Kind = "timing_distribution"
	KindURL                Kind = "url"
	KindUUID               Kind = "uuid"
)

// IsLabeled reports whether the kind fans out into per-label sub-metrics.
func (k Kind) IsLabeled() bool {
	switch k {
	case KindLabeledBoolean, KindLabeledCounter, KindLabeledString:
		return true
	default:
		return false
	}
}
