package metrics

import (
	"fmt"
	"sync"
	"time"
)

// DatetimeMetric records an absolute point in time at the metric's resolution.
type DatetimeMetric struct {
	base
	unit TimeUnit
}

// NewDatetime creates a datetime metric.
func NewDatetime(meta CommonMetricData, unit TimeUnit, eng Engine) *DatetimeMetric {
	return &DatetimeMetric{base: newBase(meta, eng), unit: unit}
}

func (m *DatetimeMetric) Kind() Kind { return KindDatetime }

// TimeUnit returns the resolution values are truncated to.
func (m *DatetimeMetric) TimeUnit() TimeUnit { return m.unit }

// Set records t truncated to the metric's time unit. A zero t records now.
func (m *DatetimeMetric) Set(t time.Time) error {
	if t.IsZero() {
		t = time.Now()
	}
	return m.record(KindDatetime, OpSet, truncateTime(t, m.unit))
}

// TestGetValue returns the stored time.
func (m *DatetimeMetric) TestGetValue(ping string) (time.Time, bool) {
	return testValueAs[time.Time](&m.base, ping)
}

func truncateTime(t time.Time, unit TimeUnit) time.Time {
	switch unit {
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	default:
		return t.Truncate(unit.Duration())
	}
}

// TimespanMetric measures one elapsed duration, reported in its time unit.
type TimespanMetric struct {
	base
	unit TimeUnit
	now  func() time.Time

	mu      sync.Mutex
	started time.Time
}

// NewTimespan creates a timespan metric.
func NewTimespan(meta CommonMetricData, unit TimeUnit, eng Engine) *TimespanMetric {
	return &TimespanMetric{base: newBase(meta, eng), unit: unit, now: time.Now}
}

func (m *TimespanMetric) Kind() Kind { return KindTimespan }

// TimeUnit returns the unit the span is reported in.
func (m *TimespanMetric) TimeUnit() TimeUnit { return m.unit }

// Start begins timing.
func (m *TimespanMetric) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started.IsZero() {
		return fmt.Errorf("%w: timespan %s already started", ErrInvalidState, m.meta.Identifier())
	}
	m.started = m.now()
	return nil
}

// Stop ends timing and records the elapsed time.
func (m *TimespanMetric) Stop() error {
	m.mu.Lock()
	started := m.started
	m.started = time.Time{}
	m.mu.Unlock()

	if started.IsZero() {
		return fmt.Errorf("%w: timespan %s stopped before it was started", ErrInvalidState, m.meta.Identifier())
	}
	return m.SetRaw(m.now().Sub(started))
}

// Cancel abandons a running timespan without recording.
func (m *TimespanMetric) Cancel() {
	m.mu.Lock()
	m.started = time.Time{}
	m.mu.Unlock()
}

// SetRaw records an externally measured duration.
func (m *TimespanMetric) SetRaw(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative timespan %s for %s", ErrInvalidValue, d, m.meta.Identifier())
	}
	return m.record(KindTimespan, OpSet, m.unit.Convert(d))
}

// TestGetValue returns the stored span in the metric's time unit.
func (m *TimespanMetric) TestGetValue(ping string) (int64, bool) {
	return testValueAs[int64](&m.base, ping)
}

// TimerID identifies one running timing distribution measurement.
type TimerID uint64

// TimingDistributionMetric accumulates duration samples, stored in nanoseconds.
type TimingDistributionMetric struct {
	base
	unit TimeUnit
	now  func() time.Time

	mu     sync.Mutex
	nextID TimerID
	timers map[TimerID]time.Time
}

// NewTimingDistribution creates a timing distribution metric.
func NewTimingDistribution(meta CommonMetricData, unit TimeUnit, eng Engine) *TimingDistributionMetric {
	return &TimingDistributionMetric{
		base:   newBase(meta, eng),
		unit:   unit,
		now:    time.Now,
		timers: make(map[TimerID]time.Time),
	}
}

func (m *TimingDistributionMetric) Kind() Kind { return KindTimingDistribution }

// TimeUnit returns the unit samples passed to AccumulateSamples are in.
func (m *TimingDistributionMetric) TimeUnit() TimeUnit { return m.unit }

// Start begins a measurement.
func (m *TimingDistributionMetric) Start() TimerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.timers[m.nextID] = m.now()
	return m.nextID
}

// StopAndAccumulate ends the measurement and records its duration.
func (m *TimingDistributionMetric) StopAndAccumulate(id TimerID) error {
	m.mu.Lock()
	started, ok := m.timers[id]
	delete(m.timers, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: timer %d not running for %s", ErrInvalidState, id, m.meta.Identifier())
	}
	return m.record(KindTimingDistribution, OpAccumulate, []int64{int64(m.now().Sub(started))})
}

// Cancel abandons a measurement.
func (m *TimingDistributionMetric) Cancel(id TimerID) {
	m.mu.Lock()
	delete(m.timers, id)
	m.mu.Unlock()
}

// AccumulateSamples records samples given in the metric's time unit.
// Negative samples are dropped and reported.
func (m *TimingDistributionMetric) AccumulateSamples(samples []int64) error {
	scale := int64(m.unit.Duration())
	nanos, dropped := scaleSamples(samples, scale)
	if len(nanos) > 0 {
		if err := m.record(KindTimingDistribution, OpAccumulate, nanos); err != nil {
			return err
		}
	}
	if dropped > 0 {
		return fmt.Errorf("%w: dropped %d negative samples for %s", ErrInvalidValue, dropped, m.meta.Identifier())
	}
	return nil
}

// TestGetValue returns all accumulated samples in nanoseconds.
func (m *TimingDistributionMetric) TestGetValue(ping string) ([]int64, bool) {
	return testValueAs[[]int64](&m.base, ping)
}

// maxMemoryBytes caps a single memory sample at 1 TB.
const maxMemoryBytes = int64(1) << 40

// MemoryDistributionMetric accumulates memory samples, stored in bytes.
type MemoryDistributionMetric struct {
	base
	unit MemoryUnit
}

// NewMemoryDistribution creates a memory distribution metric.
func NewMemoryDistribution(meta CommonMetricData, unit MemoryUnit, eng Engine) *MemoryDistributionMetric {
	return &MemoryDistributionMetric{base: newBase(meta, eng), unit: unit}
}

func (m *MemoryDistributionMetric) Kind() Kind { return KindMemoryDistribution }

// MemoryUnit returns the unit samples are supplied in.
func (m *MemoryDistributionMetric) MemoryUnit() MemoryUnit { return m.unit }

// Accumulate records one sample given in the metric's memory unit.
func (m *MemoryDistributionMetric) Accumulate(sample int64) error {
	if sample < 0 {
		return fmt.Errorf("%w: negative memory sample %d for %s", ErrInvalidValue, sample, m.meta.Identifier())
	}
	bytes := sample * m.unit.Bytes()
	if sample > maxMemoryBytes/m.unit.Bytes() {
		bytes = maxMemoryBytes
		if err := m.record(KindMemoryDistribution, OpAccumulate, []int64{bytes}); err != nil {
			return err
		}
		return fmt.Errorf("%w: memory sample for %s clamped to %d bytes", ErrInvalidValue, m.meta.Identifier(), maxMemoryBytes)
	}
	return m.record(KindMemoryDistribution, OpAccumulate, []int64{bytes})
}

// TestGetValue returns all accumulated samples in bytes.
func (m *MemoryDistributionMetric) TestGetValue(ping string) ([]int64, bool) {
	return testValueAs[[]int64](&m.base, ping)
}

func scaleSamples(samples []int64, scale int64) ([]int64, int) {
	out := make([]int64, 0, len(samples))
	dropped := 0
	for _, s := range samples {
		if s < 0 {
			dropped++
			continue
		}
		out = append(out, s*scale)
	}
	return out, dropped
}
