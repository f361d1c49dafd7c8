package metrics

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

const (
	maxStringLength     = 100
	maxStringListLength = 100
	maxURLLength        = 8192
)

// BooleanMetric records a single true/false value.
type BooleanMetric struct{ base }

// NewBoolean creates a boolean metric.
func NewBoolean(meta CommonMetricData, eng Engine) *BooleanMetric {
	return &BooleanMetric{newBase(meta, eng)}
}

func (m *BooleanMetric) Kind() Kind { return KindBoolean }

// Set records v.
func (m *BooleanMetric) Set(v bool) error {
	return m.record(KindBoolean, OpSet, v)
}

// TestGetValue returns the stored value for ping ("" selects the first send_in_pings entry).
func (m *BooleanMetric) TestGetValue(ping string) (bool, bool) {
	return testValueAs[bool](&m.base, ping)
}

// CounterMetric counts things. It can only be incremented.
type CounterMetric struct{ base }

// NewCounter creates a counter metric.
func NewCounter(meta CommonMetricData, eng Engine) *CounterMetric {
	return &CounterMetric{newBase(meta, eng)}
}

func (m *CounterMetric) Kind() Kind { return KindCounter }

// Add increases the counter by amount. Zero is ignored; negative amounts are rejected.
func (m *CounterMetric) Add(amount int64) error {
	switch {
	case amount < 0:
		return fmt.Errorf("%w: added negative value %d to %s", ErrInvalidValue, amount, m.meta.Identifier())
	case amount == 0:
		return nil
	}
	return m.record(KindCounter, OpAdd, amount)
}

// TestGetValue returns the accumulated count.
func (m *CounterMetric) TestGetValue(ping string) (int64, bool) {
	return testValueAs[int64](&m.base, ping)
}

// QuantityMetric records a single non-negative integer.
type QuantityMetric struct{ base }

// NewQuantity creates a quantity metric.
func NewQuantity(meta CommonMetricData, eng Engine) *QuantityMetric {
	return &QuantityMetric{newBase(meta, eng)}
}

func (m *QuantityMetric) Kind() Kind { return KindQuantity }

// Set records v. Negative values are rejected.
func (m *QuantityMetric) Set(v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: set negative value %d on %s", ErrInvalidValue, v, m.meta.Identifier())
	}
	return m.record(KindQuantity, OpSet, v)
}

// TestGetValue returns the stored quantity.
func (m *QuantityMetric) TestGetValue(ping string) (int64, bool) {
	return testValueAs[int64](&m.base, ping)
}

// StringMetric records a short string, truncated to 100 bytes.
type StringMetric struct{ base }

// NewString creates a string metric.
func NewString(meta CommonMetricData, eng Engine) *StringMetric {
	return &StringMetric{newBase(meta, eng)}
}

func (m *StringMetric) Kind() Kind { return KindString }

// Set records v.
func (m *StringMetric) Set(v string) error {
	return m.record(KindString, OpSet, truncate(v, maxStringLength))
}

// TestGetValue returns the stored string.
func (m *StringMetric) TestGetValue(ping string) (string, bool) {
	return testValueAs[string](&m.base, ping)
}

// StringListMetric records a bounded list of short strings.
type StringListMetric struct{ base }

// NewStringList creates a string list metric.
func NewStringList(meta CommonMetricData, eng Engine) *StringListMetric {
	return &StringListMetric{newBase(meta, eng)}
}

func (m *StringListMetric) Kind() Kind { return KindStringList }

// Add appends v to the list.
func (m *StringListMetric) Add(v string) error {
	if cur, ok := m.TestGetValue(""); ok && len(cur) >= maxStringListLength {
		return fmt.Errorf("%w: %s already holds %d entries", ErrInvalidValue, m.meta.Identifier(), maxStringListLength)
	}
	return m.record(KindStringList, OpAppend, truncate(v, maxStringLength))
}

// Set replaces the list. Entries beyond the limit are dropped and reported.
func (m *StringListMetric) Set(values []string) error {
	var err error
	if len(values) > maxStringListLength {
		err = fmt.Errorf("%w: %s given %d entries, keeping %d", ErrInvalidValue, m.meta.Identifier(), len(values), maxStringListLength)
		values = values[:maxStringListLength]
	}
	list := make([]string, len(values))
	for i, v := range values {
		list[i] = truncate(v, maxStringLength)
	}
	if rerr := m.record(KindStringList, OpSet, list); rerr != nil {
		return rerr
	}
	return err
}

// TestGetValue returns the stored list.
func (m *StringListMetric) TestGetValue(ping string) ([]string, bool) {
	return testValueAs[[]string](&m.base, ping)
}

// URLMetric records a URL.
type URLMetric struct{ base }

// NewURL creates a url metric.
func NewURL(meta CommonMetricData, eng Engine) *URLMetric {
	return &URLMetric{newBase(meta, eng)}
}

func (m *URLMetric) Kind() Kind { return KindURL }

// Set records raw after checking it parses as an absolute URL.
func (m *URLMetric) Set(raw string) error {
	if len(raw) > maxURLLength {
		return fmt.Errorf("%w: url for %s exceeds %d bytes", ErrInvalidValue, m.meta.Identifier(), maxURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: %q is not a valid url", ErrInvalidValue, raw)
	}
	return m.record(KindURL, OpSet, raw)
}

// TestGetValue returns the stored url.
func (m *URLMetric) TestGetValue(ping string) (string, bool) {
	return testValueAs[string](&m.base, ping)
}

// UUIDMetric records a UUID.
type UUIDMetric struct{ base }

// NewUUID creates a uuid metric.
func NewUUID(meta CommonMetricData, eng Engine) *UUIDMetric {
	return &UUIDMetric{newBase(meta, eng)}
}

func (m *UUIDMetric) Kind() Kind { return KindUUID }

// Set records id.
func (m *UUIDMetric) Set(id uuid.UUID) error {
	return m.record(KindUUID, OpSet, id.String())
}

// GenerateAndSet records a fresh random UUID and returns it.
func (m *UUIDMetric) GenerateAndSet() (uuid.UUID, error) {
	id := uuid.New()
	return id, m.Set(id)
}

// TestGetValue returns the stored UUID.
func (m *UUIDMetric) TestGetValue(ping string) (uuid.UUID, bool) {
	s, ok := testValueAs[string](&m.base, ping)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
