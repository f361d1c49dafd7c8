package loader

import (
	"fmt"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

const (
	argAllowedExtraKeys = schema.AttrAllowedExtraKeys
	argDynamicLabel     = schema.AttrDynamicLabel
	argLabels           = schema.AttrLabels
)

// allowedArgs are the descriptor attributes handed to constructors.
var allowedArgs = []string{
	schema.AttrAllowedExtraKeys,
	schema.AttrBucketCount,
	schema.AttrCategory,
	schema.AttrDisabled,
	schema.AttrHistogramType,
	schema.AttrIncludeClientID,
	schema.AttrSendIfEmpty,
	schema.AttrLifetime,
	schema.AttrMemoryUnit,
	schema.AttrName,
	schema.AttrRangeMax,
	schema.AttrRangeMin,
	schema.AttrReasonCodes,
	schema.AttrSendInPings,
	schema.AttrPreciseTimestamps,
	schema.AttrIncludeInfoSections,
	schema.AttrSchedulesPings,
	schema.AttrEnabled,
	schema.AttrFollowsCollectionEnabled,
	schema.AttrTimeUnit,
	schema.AttrUploaderCapabilities,
	schema.AttrLabels,
}

// commonArgs are the arguments that go into CommonMetricData; the rest are
// kind-specific.
var commonArgs = map[string]bool{
	schema.AttrCategory:    true,
	schema.AttrName:        true,
	schema.AttrSendInPings: true,
	schema.AttrLifetime:    true,
	schema.AttrDisabled:    true,
	argDynamicLabel:        true,
}

var lifetimeConversion = map[schema.Lifetime]metrics.Lifetime{
	schema.LifetimePing:        metrics.LifetimePing,
	schema.LifetimeApplication: metrics.LifetimeApplication,
	schema.LifetimeUser:        metrics.LifetimeUser,
}

var timeUnitConversion = map[schema.TimeUnit]metrics.TimeUnit{
	schema.TimeUnitNanosecond:  metrics.Nanosecond,
	schema.TimeUnitMicrosecond: metrics.Microsecond,
	schema.TimeUnitMillisecond: metrics.Millisecond,
	schema.TimeUnitSecond:      metrics.Second,
	schema.TimeUnitMinute:      metrics.Minute,
	schema.TimeUnitHour:        metrics.Hour,
	schema.TimeUnitDay:         metrics.Day,
}

var memoryUnitConversion = map[schema.MemoryUnit]metrics.MemoryUnit{
	schema.MemoryUnitByte:     metrics.Byte,
	schema.MemoryUnitKilobyte: metrics.Kilobyte,
	schema.MemoryUnitMegabyte: metrics.Megabyte,
	schema.MemoryUnitGigabyte: metrics.Gigabyte,
}

// args maps argument names to converted values.
type args map[string]any

// extractArgs collects the allowed attributes the descriptor defines and
// converts schema enumerations to metric enumerations.
func extractArgs(d *schema.Descriptor) args {
	out := make(args, len(allowedArgs))
	for _, name := range allowedArgs {
		if v, ok := d.Attr(name); ok {
			out[name] = convertArg(name, v)
		}
	}
	return out
}

// convertArg maps a schema enumeration member to its metrics counterpart.
// Values missing from the table pass through unchanged.
func convertArg(name string, v any) any {
	switch name {
	case schema.AttrLifetime:
		if l, ok := v.(schema.Lifetime); ok {
			if c, ok := lifetimeConversion[l]; ok {
				return c
			}
		}
	case schema.AttrTimeUnit:
		if u, ok := v.(schema.TimeUnit); ok {
			if c, ok := timeUnitConversion[u]; ok {
				return c
			}
		}
	case schema.AttrMemoryUnit:
		if u, ok := v.(schema.MemoryUnit); ok {
			if c, ok := memoryUnitConversion[u]; ok {
				return c
			}
		}
	}
	return v
}

// split separates common metadata arguments from kind-specific ones.
func (a args) split() (meta args, extra args) {
	meta, extra = make(args), make(args)
	for k, v := range a {
		if commonArgs[k] {
			meta[k] = v
		} else {
			extra[k] = v
		}
	}
	return meta, extra
}

// commonMetricData builds CommonMetricData from the metadata group.
func (a args) commonMetricData() (metrics.CommonMetricData, error) {
	var (
		meta metrics.CommonMetricData
		err  error
	)
	if meta.Category, err = a.string(schema.AttrCategory); err != nil {
		return meta, err
	}
	if meta.Name, err = a.string(schema.AttrName); err != nil {
		return meta, err
	}
	if meta.SendInPings, err = a.strings(schema.AttrSendInPings); err != nil {
		return meta, err
	}
	if meta.Disabled, err = a.bool(schema.AttrDisabled, false); err != nil {
		return meta, err
	}
	if meta.Lifetime, err = a.lifetime(); err != nil {
		return meta, err
	}
	if v, ok := a[argDynamicLabel]; ok && v != nil {
		label, ok := v.(string)
		if !ok {
			return meta, typeError(argDynamicLabel, "string", v)
		}
		meta.DynamicLabel = &label
	}
	return meta, nil
}

// pingOptions builds ping construction arguments.
func (a args) pingOptions() (metrics.PingOptions, error) {
	var (
		opts metrics.PingOptions
		err  error
	)
	if opts.Name, err = a.string(schema.AttrName); err != nil {
		return opts, err
	}
	bools := []struct {
		name string
		def  bool
		dst  *bool
	}{
		{schema.AttrIncludeClientID, false, &opts.IncludeClientID},
		{schema.AttrSendIfEmpty, false, &opts.SendIfEmpty},
		{schema.AttrPreciseTimestamps, true, &opts.PreciseTimestamps},
		{schema.AttrIncludeInfoSections, true, &opts.IncludeInfoSections},
		{schema.AttrEnabled, true, &opts.Enabled},
		{schema.AttrFollowsCollectionEnabled, true, &opts.FollowsCollectionEnabled},
	}
	for _, b := range bools {
		if *b.dst, err = a.bool(b.name, b.def); err != nil {
			return opts, err
		}
	}
	if opts.SchedulesPings, err = a.strings(schema.AttrSchedulesPings); err != nil {
		return opts, err
	}
	if opts.ReasonCodes, err = a.strings(schema.AttrReasonCodes); err != nil {
		return opts, err
	}
	if opts.UploaderCapabilities, err = a.strings(schema.AttrUploaderCapabilities); err != nil {
		return opts, err
	}
	return opts, nil
}

func (a args) string(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(name, "string", v)
	}
	return s, nil
}

func (a args) bool(name string, def bool) (bool, error) {
	v, ok := a[name]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(name, "bool", v)
	}
	return b, nil
}

func (a args) strings(name string) ([]string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.([]string)
	if !ok {
		return nil, typeError(name, "[]string", v)
	}
	return s, nil
}

func (a args) lifetime() (metrics.Lifetime, error) {
	v, ok := a[schema.AttrLifetime]
	if !ok {
		return metrics.LifetimePing, nil
	}
	l, ok := v.(metrics.Lifetime)
	if !ok {
		return 0, typeError(schema.AttrLifetime, "lifetime", v)
	}
	return l, nil
}

func (a args) timeUnit(def metrics.TimeUnit) (metrics.TimeUnit, error) {
	v, ok := a[schema.AttrTimeUnit]
	if !ok {
		return def, nil
	}
	u, ok := v.(metrics.TimeUnit)
	if !ok {
		return 0, typeError(schema.AttrTimeUnit, "time unit", v)
	}
	return u, nil
}

func (a args) memoryUnit(def metrics.MemoryUnit) (metrics.MemoryUnit, error) {
	v, ok := a[schema.AttrMemoryUnit]
	if !ok {
		return def, nil
	}
	u, ok := v.(metrics.MemoryUnit)
	if !ok {
		return 0, typeError(schema.AttrMemoryUnit, "memory unit", v)
	}
	return u, nil
}

func typeError(name, want string, got any) error {
	return fmt.Errorf("argument %q: expected %s, got %T (%v)", name, want, got, got)
}
