package loader

import (
	"fmt"

	"github.com/neox5/gleanbox/metrics"
)

// constructor builds the primary instance for a generic metric kind.
type constructor func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error)

// registry maps every supported kind to its constructor. Pings and objects
// are registered without one: the factory builds them itself.
var registry = map[metrics.Kind]constructor{
	metrics.KindBoolean: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewBoolean(data.Common(), eng), nil
	},
	metrics.KindCounter: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewCounter(data.Common(), eng), nil
	},
	metrics.KindDatetime: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		unit, err := extra.timeUnit(metrics.Millisecond)
		if err != nil {
			return nil, err
		}
		return metrics.NewDatetime(data.Common(), unit, eng), nil
	},
	metrics.KindEvent: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		keys, err := extra.strings(argAllowedExtraKeys)
		if err != nil {
			return nil, err
		}
		return metrics.NewEvent(data.Common(), keys, eng), nil
	},
	metrics.KindLabeledBoolean: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		labeled, labels, err := labeledArgs(data, extra)
		if err != nil {
			return nil, err
		}
		return metrics.NewLabeledBoolean(labeled, labels, eng), nil
	},
	metrics.KindLabeledCounter: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		labeled, labels, err := labeledArgs(data, extra)
		if err != nil {
			return nil, err
		}
		return metrics.NewLabeledCounter(labeled, labels, eng), nil
	},
	metrics.KindLabeledString: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		labeled, labels, err := labeledArgs(data, extra)
		if err != nil {
			return nil, err
		}
		return metrics.NewLabeledString(labeled, labels, eng), nil
	},
	metrics.KindMemoryDistribution: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		unit, err := extra.memoryUnit(metrics.Byte)
		if err != nil {
			return nil, err
		}
		return metrics.NewMemoryDistribution(data.Common(), unit, eng), nil
	},
	metrics.KindObject: nil,
	metrics.KindPing:   nil,
	metrics.KindQuantity: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewQuantity(data.Common(), eng), nil
	},
	metrics.KindString: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewString(data.Common(), eng), nil
	},
	metrics.KindStringList: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewStringList(data.Common(), eng), nil
	},
	metrics.KindTimespan: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		unit, err := extra.timeUnit(metrics.Millisecond)
		if err != nil {
			return nil, err
		}
		return metrics.NewTimespan(data.Common(), unit, eng), nil
	},
	metrics.KindTimingDistribution: func(data metrics.MetricData, extra args, eng metrics.Engine) (metrics.Metric, error) {
		unit, err := extra.timeUnit(metrics.Nanosecond)
		if err != nil {
			return nil, err
		}
		return metrics.NewTimingDistribution(data.Common(), unit, eng), nil
	},
	metrics.KindURL: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewURL(data.Common(), eng), nil
	},
	metrics.KindUUID: func(data metrics.MetricData, _ args, eng metrics.Engine) (metrics.Metric, error) {
		return metrics.NewUUID(data.Common(), eng), nil
	},
}

// lookup returns the constructor for kind. ok is false for unregistered kinds.
func lookup(kind string) (ctor constructor, ok bool) {
	ctor, ok = registry[metrics.Kind(kind)]
	return ctor, ok
}

func labeledArgs(data metrics.MetricData, extra args) (metrics.LabeledMetricData, []string, error) {
	labeled, ok := data.(metrics.LabeledMetricData)
	if !ok {
		return metrics.LabeledMetricData{}, nil, fmt.Errorf("labeled metric requires labeled metadata")
	}
	labels, err := extra.strings(argLabels)
	if err != nil {
		return metrics.LabeledMetricData{}, nil, err
	}
	return labeled, labels, nil
}
