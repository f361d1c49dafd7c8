// Package engine provides measurement engines metric instances record into.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/neox5/gleanbox/metrics"
)

// ErrUnsupportedValue is returned for a recording whose value does not fit
// its operation.
var ErrUnsupportedValue = errors.New("unsupported recording value")

// Entry is the stored value of one metric (or one label of a labeled metric)
// in one ping.
type Entry struct {
	Meta  metrics.CommonMetricData
	Kind  metrics.Kind
	Value any
}

// Submission is a ping handed to SubmitPing together with the values it
// carried, keyed by metric identifier.
type Submission struct {
	Ping    string         `json:"ping"`
	Reason  string         `json:"reason,omitempty"`
	Time    time.Time      `json:"time"`
	Metrics map[string]any `json:"metrics"`
}

// Memory keeps recorded values in process, one table per ping.
type Memory struct {
	mu          sync.RWMutex
	stores      map[string]map[string]*Entry
	submissions []Submission
	now         func() time.Time
}

// NewMemory creates an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{
		stores: make(map[string]map[string]*Entry),
		now:    time.Now,
	}
}

// Record stores r in every ping its metric is sent in.
func (m *Memory) Record(r metrics.Recording) error {
	if r.Meta == nil {
		return fmt.Errorf("%w: recording without metadata", ErrUnsupportedValue)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := r.Meta.Identifier()
	for _, ping := range pingsOf(r.Meta) {
		store, ok := m.stores[ping]
		if !ok {
			store = make(map[string]*Entry)
			m.stores[ping] = store
		}
		e, ok := store[id]
		if !ok {
			e = &Entry{Meta: *r.Meta, Kind: r.Kind}
		}
		v, err := apply(e.Value, r)
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", id, err)
		}
		e.Value = v
		store[id] = e
	}
	return nil
}

// apply combines the stored value cur with r.
func apply(cur any, r metrics.Recording) (any, error) {
	switch r.Op {
	case metrics.OpSet:
		if list, ok := r.Value.([]string); ok {
			return slices.Clone(list), nil
		}
		return r.Value, nil

	case metrics.OpAdd:
		n, ok := r.Value.(int64)
		if !ok {
			return nil, fmt.Errorf("%w: add %T", ErrUnsupportedValue, r.Value)
		}
		total, _ := cur.(int64)
		return total + n, nil

	case metrics.OpAppend:
		switch v := r.Value.(type) {
		case string:
			list, _ := cur.([]string)
			return append(list, v), nil
		case metrics.RecordedEvent:
			events, _ := cur.([]metrics.RecordedEvent)
			return append(events, v), nil
		default:
			return nil, fmt.Errorf("%w: append %T", ErrUnsupportedValue, r.Value)
		}

	case metrics.OpAccumulate:
		samples, ok := r.Value.([]int64)
		if !ok {
			return nil, fmt.Errorf("%w: accumulate %T", ErrUnsupportedValue, r.Value)
		}
		acc, _ := cur.([]int64)
		return append(acc, samples...), nil

	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrUnsupportedValue, r.Op)
	}
}

// TestGetValue returns a copy of the value stored for meta in ping.
func (m *Memory) TestGetValue(meta *metrics.CommonMetricData, ping string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.stores[ping][meta.Identifier()]
	if !ok {
		return nil, false
	}
	return cloneValue(e.Value), true
}

// SubmitPing snapshots the ping's table into a Submission and clears the
// values with ping lifetime.
func (m *Memory) SubmitPing(name, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store := m.stores[name]
	sub := Submission{
		Ping:    name,
		Reason:  reason,
		Time:    m.now(),
		Metrics: make(map[string]any, len(store)),
	}
	for id, e := range store {
		sub.Metrics[id] = cloneValue(e.Value)
		if e.Meta.Lifetime == metrics.LifetimePing {
			delete(store, id)
		}
	}
	m.submissions = append(m.submissions, sub)

	slog.Debug("ping submitted",
		"ping", name,
		"reason", reason,
		"metrics", len(sub.Metrics))

	return nil
}

// Submissions returns the pings submitted so far, oldest first.
func (m *Memory) Submissions() []Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.submissions)
}

// Snapshot returns one entry per metric identifier, read from the first
// ping the metric is sent in, sorted by identifier.
func (m *Memory) Snapshot() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for ping, store := range m.stores {
		for _, e := range store {
			if pingsOf(&e.Meta)[0] != ping {
				continue
			}
			out = append(out, Entry{Meta: e.Meta, Kind: e.Kind, Value: cloneValue(e.Value)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Meta.Identifier() < out[j].Meta.Identifier()
	})
	return out
}

// Reset drops every stored value and submission.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = make(map[string]map[string]*Entry)
	m.submissions = nil
}

// pingsOf returns the pings a metric records into. Metrics declared without
// any ping record into the unnamed ping "".
func pingsOf(meta *metrics.CommonMetricData) []string {
	if len(meta.SendInPings) == 0 {
		return []string{""}
	}
	return meta.SendInPings
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []string:
		return slices.Clone(v)
	case []int64:
		return slices.Clone(v)
	case []metrics.RecordedEvent:
		return slices.Clone(v)
	default:
		return v
	}
}
