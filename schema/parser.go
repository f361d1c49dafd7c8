package schema

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// PingsCategory is the category every ping is grouped under.
const PingsCategory = "pings"

// Option names understood by YAMLParser.
const (
	OptionAllowReserved   = "allow_reserved"
	OptionExpireByVersion = "expire_by_version"
)

var (
	categoryRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)*$`)
	nameRegex     = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)
)

var (
	lifetimes   = []Lifetime{LifetimePing, LifetimeApplication, LifetimeUser}
	timeUnits   = []TimeUnit{TimeUnitNanosecond, TimeUnitMicrosecond, TimeUnitMillisecond, TimeUnitSecond, TimeUnitMinute, TimeUnitHour, TimeUnitDay}
	memoryUnits = []MemoryUnit{MemoryUnitByte, MemoryUnitKilobyte, MemoryUnitMegabyte, MemoryUnitGigabyte}
	extraTypes  = []string{"boolean", "string", "quantity"}
)

// defaultTimeUnits holds the time unit each timed kind falls back to.
var defaultTimeUnits = map[string]TimeUnit{
	"datetime":            TimeUnitMillisecond,
	"timespan":            TimeUnitMillisecond,
	"timing_distribution": TimeUnitNanosecond,
}

// YAMLParser reads metrics.yaml and pings.yaml documents.
type YAMLParser struct {
	now func() time.Time
}

// NewYAMLParser creates a parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{now: time.Now}
}

// options are the parser options decoded from the caller's map.
type options struct {
	allowReserved   bool
	expireByVersion *int64
}

func decodeOptions(raw map[string]any) options {
	var opts options
	if v, ok := raw[OptionAllowReserved].(bool); ok {
		opts.allowReserved = v
	}
	if v, ok := toInt64(raw[OptionExpireByVersion]); ok {
		opts.expireByVersion = &v
	}
	return opts
}

// parseState accumulates categories across files.
type parseState struct {
	opts       options
	now        time.Time
	errors     []string
	categories []Category
	index      map[string]int
	seen       map[string]string // identifier -> file
}

// Parse reads every path and returns either all errors found or the
// descriptors grouped by category in document order.
func (p *YAMLParser) Parse(paths []string, rawOptions map[string]any) Result {
	st := &parseState{
		opts:  decodeOptions(rawOptions),
		now:   p.now(),
		index: make(map[string]int),
		seen:  make(map[string]string),
	}

	for _, path := range paths {
		st.parseFile(path)
	}

	if len(st.errors) > 0 {
		return Result{Errors: st.errors}
	}
	return Result{Categories: st.categories}
}

func (st *parseState) fail(msg string) {
	st.errors = append(st.errors, msg)
}

func (st *parseState) parseFile(path string) {
	ctx := parseContext{}.push("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		st.fail(ctx.errorf("failed to read schema file: %v", err))
		return
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		st.fail(ctx.errorf("failed to parse YAML: %v", err))
		return
	}
	if len(doc.Content) == 0 {
		// Empty document, nothing declared
		return
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		st.fail(ctx.errorf("top level must be a mapping"))
		return
	}

	pings := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "$schema" {
			pings = strings.Contains(root.Content[i+1].Value, "/pings/")
		}
	}

	slog.Debug("parsing schema file", "path", path, "pings", pings)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		if strings.HasPrefix(key, "$") || key == "no_lint" {
			continue
		}
		if pings {
			st.parsePing(path, key, value, ctx)
		} else {
			st.parseCategory(path, key, value, ctx)
		}
	}
}

func (st *parseState) parseCategory(path, category string, node *yaml.Node, ctx parseContext) {
	ctx = ctx.push("category", category)

	if !categoryRegex.MatchString(category) {
		st.fail(ctx.errorf("invalid category name"))
		return
	}
	if !st.opts.allowReserved && (category == "glean" || strings.HasPrefix(category, "glean.")) {
		st.fail(ctx.errorf("category is reserved for internal use"))
		return
	}
	if node.Kind != yaml.MappingNode {
		st.fail(ctx.errorf("category must be a mapping of metrics"))
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if name == "no_lint" {
			continue
		}
		mctx := ctx.push("metric", name)

		var raw rawMetric
		if err := node.Content[i+1].Decode(&raw); err != nil {
			st.fail(mctx.errorf("failed to decode metric: %v", err))
			continue
		}
		desc, ok := st.buildMetric(category, name, &raw, mctx)
		if !ok {
			continue
		}
		st.add(path, category, desc, mctx)
	}
}

func (st *parseState) parsePing(path, name string, node *yaml.Node, ctx parseContext) {
	ctx = ctx.push("ping", name)

	var raw rawPing
	if err := node.Decode(&raw); err != nil {
		st.fail(ctx.errorf("failed to decode ping: %v", err))
		return
	}

	ok := true
	if !nameRegex.MatchString(name) {
		st.fail(ctx.errorf("invalid ping name"))
		ok = false
	}
	if raw.Description == "" {
		st.fail(ctx.errorf("description required"))
		ok = false
	}
	reasons, rok := st.mappingKeys(&raw.Reasons, "reasons", ctx)
	if !ok || !rok {
		return
	}

	desc := &Descriptor{
		Name:        name,
		Type:        "ping",
		Description: raw.Description,
		Attributes: map[string]any{
			AttrName:                     name,
			AttrIncludeClientID:          raw.IncludeClientID,
			AttrSendIfEmpty:              raw.SendIfEmpty,
			AttrPreciseTimestamps:        boolOr(raw.Metadata.PreciseTimestamps, true),
			AttrIncludeInfoSections:      boolOr(raw.Metadata.IncludeInfoSections, true),
			AttrSchedulesPings:           nonNil(raw.Metadata.PingSchedule),
			AttrReasonCodes:              reasons,
			AttrEnabled:                  boolOr(raw.Enabled, true),
			AttrFollowsCollectionEnabled: boolOr(raw.Metadata.FollowsCollectionEnabled, true),
			AttrUploaderCapabilities:     nonNil(raw.UploaderCapabilities),
		},
	}
	st.add(path, PingsCategory, desc, ctx)
}

func (st *parseState) buildMetric(category, name string, raw *rawMetric, ctx parseContext) (*Descriptor, bool) {
	ok := true
	failf := func(format string, args ...any) {
		st.fail(ctx.errorf(format, args...))
		ok = false
	}

	if !nameRegex.MatchString(name) {
		failf("invalid metric name")
	}
	if raw.Type == "" {
		failf("type required")
	}
	if raw.Description == "" {
		failf("description required")
	}

	lifetime := LifetimePing
	if raw.Lifetime != "" {
		lifetime = Lifetime(raw.Lifetime)
		if !slices.Contains(lifetimes, lifetime) {
			failf("invalid lifetime: %s (must be ping, application, or user)", raw.Lifetime)
		}
	}

	expired, err := st.expired(&raw.Expires)
	if err != nil {
		failf("%v", err)
	}

	sendInPings := raw.SendInPings
	if len(sendInPings) == 0 {
		sendInPings = []string{"metrics"}
		if raw.Type == "event" {
			sendInPings = []string{"events"}
		}
	}

	attrs := map[string]any{
		AttrCategory:    category,
		AttrName:        name,
		AttrDisabled:    raw.Disabled || expired,
		AttrLifetime:    lifetime,
		AttrSendInPings: sendInPings,
	}

	if def, timed := defaultTimeUnits[raw.Type]; timed {
		unit := def
		if raw.TimeUnit != "" {
			unit = TimeUnit(raw.TimeUnit)
			if !slices.Contains(timeUnits, unit) {
				failf("invalid time_unit: %s", raw.TimeUnit)
			}
		}
		attrs[AttrTimeUnit] = unit
	}

	if raw.Type == "memory_distribution" {
		unit := MemoryUnitByte
		if raw.MemoryUnit != "" {
			unit = MemoryUnit(raw.MemoryUnit)
			if !slices.Contains(memoryUnits, unit) {
				failf("invalid memory_unit: %s", raw.MemoryUnit)
			}
		}
		attrs[AttrMemoryUnit] = unit
	}

	if raw.BucketCount != nil {
		attrs[AttrBucketCount] = int64(*raw.BucketCount)
	}
	if raw.RangeMin != nil {
		attrs[AttrRangeMin] = int64(*raw.RangeMin)
	}
	if raw.RangeMax != nil {
		attrs[AttrRangeMax] = int64(*raw.RangeMax)
	}
	if raw.HistogramType != "" {
		attrs[AttrHistogramType] = raw.HistogramType
	}

	if strings.HasPrefix(raw.Type, "labeled_") {
		attrs[AttrLabeled] = true
		if len(raw.Labels) > 0 {
			attrs[AttrLabels] = raw.Labels
		}
	}

	if raw.Type == "event" {
		keys, kok := st.extraKeys(&raw.ExtraKeys, ctx)
		if !kok {
			ok = false
		}
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.Name
		}
		attrs[AttrAllowedExtraKeys] = names
		attrs[AttrAllowedExtraKeysWithTypes] = keys
	} else if raw.ExtraKeys.Kind != 0 {
		failf("extra_keys only allowed on event metrics")
	}

	if raw.Type == "object" {
		if raw.Structure == nil {
			failf("structure required for object metrics")
		} else {
			attrs[AttrStructure] = raw.Structure
		}
	}

	if !ok {
		return nil, false
	}
	return &Descriptor{
		Category:    category,
		Name:        name,
		Type:        raw.Type,
		Description: raw.Description,
		Attributes:  attrs,
	}, true
}

// add appends desc to its category, rejecting duplicates across files.
func (st *parseState) add(path, category string, desc *Descriptor, ctx parseContext) {
	id := category + "." + desc.Name
	if prev, dup := st.seen[id]; dup {
		st.fail(ctx.errorf("duplicate definition, first defined in %s", prev))
		return
	}
	st.seen[id] = path

	idx, exists := st.index[category]
	if !exists {
		idx = len(st.categories)
		st.index[category] = idx
		st.categories = append(st.categories, Category{Name: category})
	}
	st.categories[idx].Metrics = append(st.categories[idx].Metrics, desc)
}

// extraKeys decodes extra_keys, sorted by name.
func (st *parseState) extraKeys(node *yaml.Node, ctx parseContext) ([]ExtraKey, bool) {
	if node.Kind == 0 {
		return []ExtraKey{}, true
	}
	if node.Kind != yaml.MappingNode {
		st.fail(ctx.errorf("extra_keys must be a mapping"))
		return nil, false
	}

	ok := true
	keys := make([]ExtraKey, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var raw rawExtraKey
		if err := node.Content[i+1].Decode(&raw); err != nil {
			st.fail(ctx.push("extra key", name).errorf("failed to decode: %v", err))
			ok = false
			continue
		}
		typ := raw.Type
		if typ == "" {
			typ = "string"
		}
		if !slices.Contains(extraTypes, typ) {
			st.fail(ctx.push("extra key", name).errorf("invalid type: %s (must be boolean, string, or quantity)", typ))
			ok = false
			continue
		}
		keys = append(keys, ExtraKey{Name: name, Type: typ})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys, ok
}

// mappingKeys returns the keys of an optional mapping in document order.
func (st *parseState) mappingKeys(node *yaml.Node, field string, ctx parseContext) ([]string, bool) {
	if node.Kind == 0 {
		return []string{}, true
	}
	if node.Kind != yaml.MappingNode {
		st.fail(ctx.errorf("%s must be a mapping", field))
		return nil, false
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys, true
}

// expired interprets the expires field: never, expired, an ISO date, or a
// major version compared against the expire_by_version option.
func (st *parseState) expired(node *yaml.Node) (bool, error) {
	if node.Kind == 0 {
		return false, nil
	}
	value := node.Value
	switch value {
	case "", "never":
		return false, nil
	case "expired":
		return true, nil
	}
	if version, err := strconv.ParseInt(value, 10, 64); err == nil {
		if st.opts.expireByVersion == nil {
			return false, nil
		}
		return *st.opts.expireByVersion >= version, nil
	}
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return false, fmt.Errorf("invalid expires value %q", value)
	}
	return !st.now.Before(date), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
