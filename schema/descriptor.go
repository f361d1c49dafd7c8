package schema

// Lifetime is the lifetime as spelled in a schema document.
type Lifetime string

const (
	LifetimePing        Lifetime = "ping"
	LifetimeApplication Lifetime = "application"
	LifetimeUser        Lifetime = "user"
)

// TimeUnit is a time unit as spelled in a schema document.
type TimeUnit string

const (
	TimeUnitNanosecond  TimeUnit = "nanosecond"
	TimeUnitMicrosecond TimeUnit = "microsecond"
	TimeUnitMillisecond TimeUnit = "millisecond"
	TimeUnitSecond      TimeUnit = "second"
	TimeUnitMinute      TimeUnit = "minute"
	TimeUnitHour        TimeUnit = "hour"
	TimeUnitDay         TimeUnit = "day"
)

// MemoryUnit is a memory unit as spelled in a schema document.
type MemoryUnit string

const (
	MemoryUnitByte     MemoryUnit = "byte"
	MemoryUnitKilobyte MemoryUnit = "kilobyte"
	MemoryUnitMegabyte MemoryUnit = "megabyte"
	MemoryUnitGigabyte MemoryUnit = "gigabyte"
)

// Attribute names a descriptor may carry.
const (
	AttrAllowedExtraKeys          = "allowed_extra_keys"
	AttrAllowedExtraKeysWithTypes = "allowed_extra_keys_with_types"
	AttrBucketCount               = "bucket_count"
	AttrCategory                  = "category"
	AttrDisabled                  = "disabled"
	AttrDynamicLabel              = "dynamic_label"
	AttrEnabled                   = "enabled"
	AttrFollowsCollectionEnabled  = "follows_collection_enabled"
	AttrHistogramType             = "histogram_type"
	AttrIncludeClientID           = "include_client_id"
	AttrIncludeInfoSections       = "include_info_sections"
	AttrLabeled                   = "labeled"
	AttrLabels                    = "labels"
	AttrLifetime                  = "lifetime"
	AttrMemoryUnit                = "memory_unit"
	AttrName                      = "name"
	AttrPreciseTimestamps         = "precise_timestamps"
	AttrRangeMax                  = "range_max"
	AttrRangeMin                  = "range_min"
	AttrReasonCodes               = "reason_codes"
	AttrSchedulesPings            = "schedules_pings"
	AttrSendIfEmpty               = "send_if_empty"
	AttrSendInPings               = "send_in_pings"
	AttrStructure                 = "structure"
	AttrTimeUnit                  = "time_unit"
	AttrUploaderCapabilities      = "uploader_capabilities"
)

// ExtraKey is one allowed event extra key with its declared type.
type ExtraKey struct {
	Name string
	Type string
}

// Descriptor is the parsed description of one metric or ping.
// It is read-only once returned by a Parser.
type Descriptor struct {
	Category    string
	Name        string
	Type        string
	Description string

	// Attributes holds the per-kind attributes the descriptor defines.
	// Enumerated attributes use this package's Lifetime, TimeUnit and
	// MemoryUnit types.
	Attributes map[string]any
}

// Attr returns an attribute and whether the descriptor defines it.
func (d *Descriptor) Attr(name string) (any, bool) {
	v, ok := d.Attributes[name]
	return v, ok
}

// Labeled reports whether the descriptor declares a labeled metric.
func (d *Descriptor) Labeled() bool {
	v, _ := d.Attributes[AttrLabeled].(bool)
	return v
}

// ExtraKeys returns the allowed event extra keys with their types.
func (d *Descriptor) ExtraKeys() []ExtraKey {
	v, _ := d.Attributes[AttrAllowedExtraKeysWithTypes].([]ExtraKey)
	return v
}

// ReasonCodes returns the declared ping reason codes in order.
func (d *Descriptor) ReasonCodes() []string {
	v, _ := d.Attributes[AttrReasonCodes].([]string)
	return v
}

// Structure returns the structure of an object metric.
func (d *Descriptor) Structure() *StructureNode {
	v, _ := d.Attributes[AttrStructure].(*StructureNode)
	return v
}

// Category groups the descriptors declared under one category name.
type Category struct {
	Name    string
	Metrics []*Descriptor
}

// Result is what a Parser returns: either errors or categories.
type Result struct {
	Errors     []string
	Categories []Category
}

// Len returns the number of descriptors across all categories.
func (r *Result) Len() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Metrics)
	}
	return n
}

// Parser turns schema files into descriptors. options are interpreted by the
// parser only.
type Parser interface {
	Parse(paths []string, options map[string]any) Result
}
