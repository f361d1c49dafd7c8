package loader

import (
	"fmt"
	"log/slog"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

// entry is one named object produced for a descriptor.
type entry struct {
	name   string
	object Object
}

// factory builds namespace entries from descriptors.
type factory struct {
	engine metrics.Engine
}

// build returns the entries for one descriptor: generated record types of an
// object metric first, then the primary instance, then the event extras type
// or ping reason codes.
func (f *factory) build(name string, d *schema.Descriptor) ([]entry, error) {
	a := extractArgs(d)

	var (
		out     []entry
		primary Object
	)

	ctor, registered := lookup(d.Type)
	switch {
	case !registered:
		slog.Warn("unsupported metric type",
			"category", d.Category,
			"name", name,
			"type", d.Type)
		primary = unsupportedObject(d.Type, d.Description)

	case d.Type == string(metrics.KindPing):
		// Pings take no CommonMetricData
		opts, err := a.pingOptions()
		if err != nil {
			return nil, err
		}
		ping := metrics.NewPing(opts, f.engine)
		ping.SetDoc(d.Description)
		primary = metricObject(ping)

	case d.Type == string(metrics.KindObject):
		structure, err := generateStructure(camelize(name+"_object"), d.Structure())
		if err != nil {
			return nil, err
		}
		for _, t := range structure.Types {
			out = append(out, entry{name: t.Name(), object: recordObject(t)})
		}
		meta, _ := a.split()
		common, err := meta.commonMetricData()
		if err != nil {
			return nil, err
		}
		obj := metrics.NewObject(common, structure.Root, f.engine)
		obj.SetDoc(d.Description)
		primary = metricObject(obj)

	default:
		if _, ok := a[argDynamicLabel]; !ok {
			a[argDynamicLabel] = nil
		}
		meta, extra := a.split()
		common, err := meta.commonMetricData()
		if err != nil {
			return nil, err
		}
		var data metrics.MetricData = common
		if d.Labeled() {
			data = metrics.LabeledMetricData{Meta: common}
		}
		m, err := ctor(data, extra, f.engine)
		if err != nil {
			return nil, err
		}
		m.SetDoc(d.Description)
		primary = metricObject(m)
	}

	out = append(out, entry{name: name, object: primary})

	switch metrics.Kind(d.Type) {
	case metrics.KindEvent:
		typeName := camelize(name + "_extra")
		out = append(out, entry{name: typeName, object: extrasObject(eventExtras(typeName, d))})
	case metrics.KindPing:
		enumName := name + "_reason_codes"
		out = append(out, entry{name: enumName, object: reasonCodesObject(pingReasonCodes(camelize(enumName), d))})
	}

	slog.Debug("built metric",
		"category", d.Category,
		"name", name,
		"type", d.Type,
		"objects", len(out))

	return out, nil
}

// buildError adds the descriptor's location to a construction error.
func buildError(category, name string, err error) error {
	return fmt.Errorf("failed to build metric %q in category %q: %w", name, category, err)
}
