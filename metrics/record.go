package metrics

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ScalarType is a leaf type inside an object structure.
type ScalarType string

const (
	ScalarBoolean ScalarType = "boolean"
	ScalarString  ScalarType = "string"
	ScalarNumber  ScalarType = "number"
)

// RecordKind distinguishes object records from array records.
type RecordKind int

const (
	RecordObject RecordKind = iota
	RecordArray
)

func (k RecordKind) String() string {
	if k == RecordArray {
		return "array"
	}
	return "object"
}

// FieldType is either a scalar or a generated record type. Exactly one is set.
type FieldType struct {
	Scalar ScalarType
	Record *RecordType
}

func (t FieldType) String() string {
	if t.Record != nil {
		return t.Record.name
	}
	return string(t.Scalar)
}

// accept returns v normalized for storage, or false if it does not fit.
func (t FieldType) accept(v any) (any, bool) {
	if t.Record != nil {
		r, ok := v.(*Record)
		return r, ok && r != nil && r.typ == t.Record
	}
	switch t.Scalar {
	case ScalarBoolean:
		b, ok := v.(bool)
		return b, ok
	case ScalarString:
		s, ok := v.(string)
		return s, ok
	case ScalarNumber:
		return asInt64(v)
	}
	return nil, false
}

// Field is a named member of an object record type.
type Field struct {
	Name string
	Type FieldType
}

// RecordType is a record type generated from an object metric's structure.
type RecordType struct {
	name   string
	kind   RecordKind
	fields []Field
	item   FieldType
}

// NewObjectType creates an object record type. Every field defaults to absent.
func NewObjectType(name string, fields []Field) *RecordType {
	return &RecordType{name: name, kind: RecordObject, fields: append([]Field(nil), fields...)}
}

// NewArrayType creates an array record type holding items of the given type.
func NewArrayType(name string, item FieldType) *RecordType {
	return &RecordType{name: name, kind: RecordArray, item: item}
}

// Name returns the generated type name.
func (t *RecordType) Name() string { return t.name }

// Kind reports whether the type is an object or an array.
func (t *RecordType) Kind() RecordKind { return t.kind }

// Fields returns the fields of an object type in declaration order.
func (t *RecordType) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// Item returns the item type of an array type.
func (t *RecordType) Item() FieldType { return t.item }

// Field looks up a field of an object type.
func (t *RecordType) Field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// New returns an empty instance with every field absent.
func (t *RecordType) New() *Record {
	r := &Record{typ: t}
	if t.kind == RecordObject {
		r.values = make(map[string]any, len(t.fields))
	}
	return r
}

// Record is a mutable instance of a generated record type.
type Record struct {
	typ    *RecordType
	values map[string]any
	items  []any
}

// Type returns the record's type.
func (r *Record) Type() *RecordType { return r.typ }

// Set assigns a field of an object record. A nil value clears the field.
func (r *Record) Set(name string, v any) error {
	if r.typ.kind != RecordObject {
		return fmt.Errorf("%w: %s is an array, cannot set field %q", ErrFieldType, r.typ.name, name)
	}
	f, ok := r.typ.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s has no field %q", ErrFieldType, r.typ.name, name)
	}
	if v == nil {
		delete(r.values, name)
		return nil
	}
	stored, ok := f.Type.accept(v)
	if !ok {
		return fmt.Errorf("%w: field %q of %s requires %s, got %T", ErrFieldType, name, r.typ.name, f.Type, v)
	}
	r.values[name] = stored
	return nil
}

// Get returns a field of an object record if it was set.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Append adds an item to an array record.
func (r *Record) Append(v any) error {
	if r.typ.kind != RecordArray {
		return fmt.Errorf("%w: %s is not an array", ErrFieldType, r.typ.name)
	}
	stored, ok := r.typ.item.accept(v)
	if !ok {
		return fmt.Errorf("%w: items of %s require %s, got %T", ErrFieldType, r.typ.name, r.typ.item, v)
	}
	r.items = append(r.items, stored)
	return nil
}

// Len returns the number of items of an array record or set fields of an object record.
func (r *Record) Len() int {
	if r.typ.kind == RecordArray {
		return len(r.items)
	}
	return len(r.values)
}

// Items returns the items of an array record.
func (r *Record) Items() []any {
	return append([]any(nil), r.items...)
}

// MarshalJSON serializes the record. Absent object fields are omitted.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.plain())
}

func (r *Record) plain() any {
	if r.typ.kind == RecordArray {
		out := make([]any, len(r.items))
		for i, v := range r.items {
			out[i] = plainValue(v)
		}
		return out
	}
	out := make(map[string]any, len(r.values))
	for name, v := range r.values {
		out[name] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	if nested, ok := v.(*Record); ok {
		return nested.plain()
	}
	return v
}
