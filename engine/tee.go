package engine

import (
	"errors"

	"github.com/neox5/gleanbox/metrics"
)

// Tee fans recordings and ping submissions out to several engines. Test
// values are read from the first engine.
type Tee struct {
	engines []metrics.Engine
}

// NewTee creates a Tee over engines. Nil engines are skipped.
func NewTee(engines ...metrics.Engine) *Tee {
	t := &Tee{}
	for _, e := range engines {
		if e != nil {
			t.engines = append(t.engines, e)
		}
	}
	return t
}

// Record forwards r to every engine and joins their errors.
func (t *Tee) Record(r metrics.Recording) error {
	var errs []error
	for _, e := range t.engines {
		if err := e.Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TestGetValue reads from the first engine.
func (t *Tee) TestGetValue(meta *metrics.CommonMetricData, ping string) (any, bool) {
	if len(t.engines) == 0 {
		return nil, false
	}
	return t.engines[0].TestGetValue(meta, ping)
}

// SubmitPing forwards the submission to every engine and joins their errors.
func (t *Tee) SubmitPing(name, reason string) error {
	var errs []error
	for _, e := range t.engines {
		if err := e.SubmitPing(name, reason); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
