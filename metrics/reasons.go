package metrics

import "strings"

// ReasonCode is one member of a ping's reason code enumeration.
type ReasonCode struct {
	Name   string // upper-cased identifier, e.g. DIRTY_STARTUP
	Value  int
	Reason string // the code as declared, passed on submit
}

// ReasonCodes is the enumeration generated for one ping.
type ReasonCodes struct {
	name   string
	codes  []ReasonCode
	byName map[string]int
}

// NewReasonCodes numbers reasons sequentially from 0 in declaration order.
func NewReasonCodes(name string, reasons []string) *ReasonCodes {
	r := &ReasonCodes{
		name:   name,
		codes:  make([]ReasonCode, len(reasons)),
		byName: make(map[string]int, len(reasons)),
	}
	for i, reason := range reasons {
		code := ReasonCode{Name: reasonIdentifier(reason), Value: i, Reason: reason}
		r.codes[i] = code
		r.byName[code.Name] = i
	}
	return r
}

// Name returns the generated type name.
func (r *ReasonCodes) Name() string { return r.name }

// Codes returns the members in value order.
func (r *ReasonCodes) Codes() []ReasonCode {
	return append([]ReasonCode(nil), r.codes...)
}

// Len returns the number of members.
func (r *ReasonCodes) Len() int { return len(r.codes) }

// Value returns the integer for an upper-cased member name.
func (r *ReasonCodes) Value(name string) (int, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Code returns the member with the given value.
func (r *ReasonCodes) Code(value int) (ReasonCode, bool) {
	if value < 0 || value >= len(r.codes) {
		return ReasonCode{}, false
	}
	return r.codes[value], true
}

func reasonIdentifier(reason string) string {
	return strings.ToUpper(strings.ReplaceAll(reason, "-", "_"))
}
