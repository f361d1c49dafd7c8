package metrics

// Op describes how a recording combines with a previously stored value.
type Op string

const (
	OpSet        Op = "set"
	OpAdd        Op = "add"
	OpAppend     Op = "append"
	OpAccumulate Op = "accumulate"
)

// Recording is a single value handed to the measurement engine.
type Recording struct {
	Meta  *CommonMetricData
	Kind  Kind
	Op    Op
	Value any
}

// Engine is the measurement engine metric instances record into. Storage,
// batching and transmission all live behind it.
type Engine interface {
	Record(r Recording) error
	TestGetValue(meta *CommonMetricData, ping string) (any, bool)
	SubmitPing(name, reason string) error
}

type noopEngine struct{}

func (noopEngine) Record(Recording) error                            { return nil }
func (noopEngine) TestGetValue(*CommonMetricData, string) (any, bool) { return nil, false }
func (noopEngine) SubmitPing(string, string) error                   { return nil }

func orNoop(eng Engine) Engine {
	if eng == nil {
		return noopEngine{}
	}
	return eng
}
