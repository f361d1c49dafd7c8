package metrics

// Metric is implemented by every primary instance built from a descriptor.
type Metric interface {
	Kind() Kind
	Doc() string
	SetDoc(doc string)
}

// Identified is implemented by metrics that carry CommonMetricData.
type Identified interface {
	Meta() *CommonMetricData
}

// base carries what every CommonMetricData-backed metric shares.
type base struct {
	meta   CommonMetricData
	doc    string
	engine Engine
}

func newBase(meta CommonMetricData, eng Engine) base {
	return base{meta: meta, engine: orNoop(eng)}
}

// Meta returns the metric's metadata.
func (b *base) Meta() *CommonMetricData {
	return &b.meta
}

// Doc returns the description the metric was declared with.
func (b *base) Doc() string {
	return b.doc
}

// SetDoc replaces the metric's documentation.
func (b *base) SetDoc(doc string) {
	b.doc = doc
}

func (b *base) record(kind Kind, op Op, v any) error {
	if b.meta.Disabled {
		return nil
	}
	return b.engine.Record(Recording{Meta: &b.meta, Kind: kind, Op: op, Value: v})
}

func (b *base) testValue(ping string) (any, bool) {
	if ping == "" {
		ping = b.meta.defaultPing()
	}
	return b.engine.TestGetValue(&b.meta, ping)
}

// testValueAs reads a test value and asserts its type.
func testValueAs[T any](b *base, ping string) (T, bool) {
	var zero T
	raw, ok := b.testValue(ping)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
