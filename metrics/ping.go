package metrics

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// PingOptions are the construction arguments of a ping.
type PingOptions struct {
	Name                     string
	IncludeClientID          bool
	SendIfEmpty              bool
	PreciseTimestamps        bool
	IncludeInfoSections      bool
	Enabled                  bool
	FollowsCollectionEnabled bool
	SchedulesPings           []string
	ReasonCodes              []string
	UploaderCapabilities     []string
}

// PingType is a custom ping. Pings carry no CommonMetricData.
type PingType struct {
	opts    PingOptions
	doc     string
	enabled atomic.Bool
	engine  Engine
}

// NewPing creates a ping.
func NewPing(opts PingOptions, eng Engine) *PingType {
	p := &PingType{opts: opts, engine: orNoop(eng)}
	p.enabled.Store(opts.Enabled)
	return p
}

func (p *PingType) Kind() Kind { return KindPing }

// Doc returns the ping description.
func (p *PingType) Doc() string { return p.doc }

// SetDoc replaces the ping description.
func (p *PingType) SetDoc(doc string) { p.doc = doc }

// Name returns the ping name.
func (p *PingType) Name() string { return p.opts.Name }

// Options returns a copy of the construction arguments.
func (p *PingType) Options() PingOptions {
	opts := p.opts
	opts.SchedulesPings = slices.Clone(opts.SchedulesPings)
	opts.ReasonCodes = slices.Clone(opts.ReasonCodes)
	opts.UploaderCapabilities = slices.Clone(opts.UploaderCapabilities)
	return opts
}

// SetEnabled turns submission on or off at runtime.
func (p *PingType) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Enabled reports whether the ping is currently submitted.
func (p *PingType) Enabled() bool {
	return p.enabled.Load()
}

// Submit hands the ping to the engine. reason must be "" or a declared reason code.
func (p *PingType) Submit(reason string) error {
	if reason != "" && !slices.Contains(p.opts.ReasonCodes, reason) {
		return fmt.Errorf("%w: reason %q not declared for ping %q", ErrInvalidValue, reason, p.opts.Name)
	}
	if !p.Enabled() {
		return nil
	}
	return p.engine.SubmitPing(p.opts.Name, reason)
}

// SubmitCode submits with a member of the ping's reason code enumeration.
func (p *PingType) SubmitCode(code ReasonCode) error {
	return p.Submit(code.Reason)
}
