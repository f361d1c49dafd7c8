package metrics

import (
	"fmt"
	"math"
	"strconv"
)

// ExtraType is the value kind an event extra field accepts.
type ExtraType string

const (
	ExtraBoolean  ExtraType = "boolean"
	ExtraString   ExtraType = "string"
	ExtraQuantity ExtraType = "quantity"
)

// ExtraField declares one allowed extra key.
type ExtraField struct {
	Name string
	Type ExtraType
}

// ExtrasType describes the extras record generated for one event metric.
type ExtrasType struct {
	name   string
	fields []ExtraField
	index  map[string]ExtraType
}

// NewExtrasType creates the extras record type for an event.
func NewExtrasType(name string, fields []ExtraField) *ExtrasType {
	t := &ExtrasType{
		name:   name,
		fields: append([]ExtraField(nil), fields...),
		index:  make(map[string]ExtraType, len(fields)),
	}
	for _, f := range fields {
		t.index[f.Name] = f.Type
	}
	return t
}

// Name returns the generated type name.
func (t *ExtrasType) Name() string { return t.name }

// Fields returns the allowed fields in declaration order.
func (t *ExtrasType) Fields() []ExtraField {
	return append([]ExtraField(nil), t.fields...)
}

// New builds an extras value, rejecting unknown keys and mistyped values.
func (t *ExtrasType) New(values map[string]any) (*Extras, error) {
	e := &Extras{typ: t, values: make(map[string]any, len(values))}
	for key, v := range values {
		if err := e.Set(key, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (t *ExtrasType) check(key string, v any) (any, error) {
	typ, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: argument %q not valid for %s", ErrUnknownExtra, key, t.name)
	}
	switch typ {
	case ExtraBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case ExtraString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ExtraQuantity:
		if n, ok := asInt64(v); ok {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: field %q requires type %s in %s", ErrExtraType, key, typ, t.name)
}

// Extras is one set of extra values for an event recording.
type Extras struct {
	typ    *ExtrasType
	values map[string]any
}

// Type returns the extras record type.
func (e *Extras) Type() *ExtrasType { return e.typ }

// Set assigns one field, validating it like New does.
func (e *Extras) Set(key string, v any) error {
	checked, err := e.typ.check(key, v)
	if err != nil {
		return err
	}
	e.values[key] = checked
	return nil
}

// Get returns a field value if it was set.
func (e *Extras) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Serialize renders every set field as a string: booleans as "true"/"false",
// quantities in decimal, strings unchanged. Unset fields are omitted.
func (e *Extras) Serialize() map[string]string {
	out := make(map[string]string, len(e.values))
	for _, f := range e.typ.fields {
		v, ok := e.values[f.Name]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case bool:
			out[f.Name] = strconv.FormatBool(val)
		case int64:
			out[f.Name] = strconv.FormatInt(val, 10)
		case string:
			out[f.Name] = val
		}
	}
	return out
}

// asInt64 accepts any Go integer type whose value fits in an int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
