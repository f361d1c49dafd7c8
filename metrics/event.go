package metrics

import (
	"fmt"
	"slices"
	"time"
)

const maxExtraValueLength = 500

// RecordedEvent is the value an event recording hands to the engine.
type RecordedEvent struct {
	Timestamp int64 // milliseconds since the Unix epoch
	Category  string
	Name      string
	Extra     map[string]string
}

// EventMetric records discrete events with optional typed extras.
type EventMetric struct {
	base
	allowedExtraKeys []string
	now              func() time.Time
}

// NewEvent creates an event metric accepting the given extra keys.
func NewEvent(meta CommonMetricData, allowedExtraKeys []string, eng Engine) *EventMetric {
	return &EventMetric{
		base:             newBase(meta, eng),
		allowedExtraKeys: append([]string(nil), allowedExtraKeys...),
		now:              time.Now,
	}
}

func (m *EventMetric) Kind() Kind { return KindEvent }

// AllowedExtraKeys returns the extra keys the event accepts.
func (m *EventMetric) AllowedExtraKeys() []string {
	return append([]string(nil), m.allowedExtraKeys...)
}

// Record records one event. extras may be nil.
func (m *EventMetric) Record(extras *Extras) error {
	ev := RecordedEvent{
		Timestamp: m.now().UnixMilli(),
		Category:  m.meta.Category,
		Name:      m.meta.Name,
	}
	if extras != nil {
		ev.Extra = extras.Serialize()
		for key, v := range ev.Extra {
			if !slices.Contains(m.allowedExtraKeys, key) {
				return fmt.Errorf("%w: %q not allowed for event %s", ErrUnknownExtra, key, m.meta.Identifier())
			}
			ev.Extra[key] = truncate(v, maxExtraValueLength)
		}
	}
	return m.record(KindEvent, OpAppend, ev)
}

// TestGetValue returns the events recorded so far.
func (m *EventMetric) TestGetValue(ping string) ([]RecordedEvent, bool) {
	return testValueAs[[]RecordedEvent](&m.base, ping)
}
