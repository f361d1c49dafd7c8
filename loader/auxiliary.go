package loader

import (
	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

// eventExtras generates the extras record type of an event metric.
func eventExtras(typeName string, d *schema.Descriptor) *metrics.ExtrasType {
	keys := d.ExtraKeys()
	fields := make([]metrics.ExtraField, len(keys))
	for i, k := range keys {
		fields[i] = metrics.ExtraField{Name: k.Name, Type: metrics.ExtraType(k.Type)}
	}
	return metrics.NewExtrasType(typeName, fields)
}

// pingReasonCodes generates the reason code enumeration of a ping.
func pingReasonCodes(typeName string, d *schema.Descriptor) *metrics.ReasonCodes {
	return metrics.NewReasonCodes(typeName, d.ReasonCodes())
}
