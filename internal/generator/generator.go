// Package generator feeds metrics of a loaded tree from simv random sources.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/loader"
	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/simv/clock"
	"github.com/neox5/simv/source"
	"github.com/neox5/simv/transform"
	"github.com/neox5/simv/value"
)

// binding applies the current value of a simv value to one metric.
type binding struct {
	path  string
	label string
	value value.Value[int]
	apply func(v int) error
}

// pingSchedule submits a ping periodically.
type pingSchedule struct {
	ping   *metrics.PingType
	every  time.Duration
	reason string
}

// Generator manages simv components and drives recordings into the tree.
type Generator struct {
	clock    clock.Clock
	interval time.Duration
	bindings []binding
	pings    []pingSchedule
	wg       sync.WaitGroup
}

// New binds every simulated metric of cfg to its metric in root.
func New(cfg *config.SimulationConfig, root *loader.Namespace) (*Generator, error) {
	clk := clock.NewPeriodicClock(cfg.Interval)

	g := &Generator{
		clock:    clk,
		interval: cfg.Interval,
	}

	for _, sm := range cfg.Metrics {
		var transforms []transform.Transformation[int]
		for _, tf := range sm.Transforms {
			switch tf {
			case "accumulate":
				transforms = append(transforms, transform.NewAccumulate[int]())
			default:
				return nil, fmt.Errorf("unknown transform: %s", tf)
			}
		}
		src := source.NewRandomIntSource(clk, sm.Min, sm.Max)

		apply, err := applier(root, sm.Metric, sm.Label)
		if err != nil {
			return nil, err
		}

		g.bindings = append(g.bindings, binding{
			path:  sm.Metric,
			label: sm.Label,
			value: value.New(src, transforms...),
			apply: apply,
		})
		slog.Info("bound simulated metric", "metric", sm.Metric, "label", sm.Label)
	}

	pings, _ := root.Pings()
	for _, sp := range cfg.Pings {
		if pings == nil {
			return nil, fmt.Errorf("ping %q not found: schema declares no pings", sp.Ping)
		}
		p, err := loader.MetricAs[*metrics.PingType](pings, sp.Ping)
		if err != nil {
			return nil, fmt.Errorf("failed to bind ping %q: %w", sp.Ping, err)
		}
		g.pings = append(g.pings, pingSchedule{ping: p, every: sp.Every, reason: sp.Reason})
	}

	return g, nil
}

// applier returns the recording operation for the metric at path.
func applier(root *loader.Namespace, path, label string) (func(int) error, error) {
	m, err := root.Metric(path)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %q: %w", path, err)
	}

	switch m := m.(type) {
	case *metrics.CounterMetric:
		return func(v int) error { return m.Add(int64(v)) }, nil
	case *metrics.QuantityMetric:
		return func(v int) error { return m.Set(int64(v)) }, nil
	case *metrics.BooleanMetric:
		return func(v int) error { return m.Set(v%2 == 1) }, nil
	case *metrics.MemoryDistributionMetric:
		return func(v int) error { return m.Accumulate(int64(v)) }, nil
	case *metrics.TimingDistributionMetric:
		return func(v int) error {
			return m.AccumulateSamples([]int64{int64(v) * int64(m.TimeUnit().Duration())})
		}, nil
	case *metrics.LabeledCounterMetric:
		if label == "" {
			return nil, fmt.Errorf("labeled counter %q needs a label", path)
		}
		child := m.Get(label)
		return func(v int) error { return child.Add(int64(v)) }, nil
	case *metrics.LabeledBooleanMetric:
		if label == "" {
			return nil, fmt.Errorf("labeled boolean %q needs a label", path)
		}
		child := m.Get(label)
		return func(v int) error { return child.Set(v%2 == 1) }, nil
	default:
		return nil, fmt.Errorf("metric %q of kind %s cannot be simulated", path, m.Kind())
	}
}

// Run starts the clock and records into bound metrics until ctx is
// cancelled.
func (g *Generator) Run(ctx context.Context) {
	g.clock.Start()

	g.wg.Go(func() {
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Tick()
			}
		}
	})

	for _, p := range g.pings {
		g.wg.Go(func() {
			ticker := time.NewTicker(p.every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := p.ping.Submit(p.reason); err != nil {
						slog.Warn("ping submission failed", "ping", p.ping.Name(), "error", err)
					}
				}
			}
		})
	}
}

// Tick records the current value of every binding once.
func (g *Generator) Tick() {
	for _, b := range g.bindings {
		v := b.value.Value()
		if err := b.apply(v); err != nil {
			slog.Warn("simulated recording rejected",
				"metric", b.path,
				"label", b.label,
				"value", v,
				"error", err)
		}
	}
	slog.Debug("simulation tick", "bindings", len(g.bindings))
}

// Stop halts the clock and waits for the recording loops to exit.
func (g *Generator) Stop() {
	g.clock.Stop()
	g.wg.Wait()
}
