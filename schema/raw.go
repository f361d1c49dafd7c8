package schema

import "go.yaml.in/yaml/v4"

// rawMetric is one metric entry of a metrics document as written.
type rawMetric struct {
	Type          string         `yaml:"type"`
	Description   string         `yaml:"description"`
	Lifetime      string         `yaml:"lifetime"`
	Disabled      bool           `yaml:"disabled"`
	SendInPings   []string       `yaml:"send_in_pings"`
	Expires       yaml.Node      `yaml:"expires"`
	TimeUnit      string         `yaml:"time_unit"`
	MemoryUnit    string         `yaml:"memory_unit"`
	BucketCount   *int           `yaml:"bucket_count"`
	RangeMin      *int           `yaml:"range_min"`
	RangeMax      *int           `yaml:"range_max"`
	HistogramType string         `yaml:"histogram_type"`
	Labels        []string       `yaml:"labels"`
	ExtraKeys     yaml.Node      `yaml:"extra_keys"`
	Structure     *StructureNode `yaml:"structure"`
}

// rawExtraKey is one entry under extra_keys.
type rawExtraKey struct {
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
}

// rawPing is one ping entry of a pings document as written.
type rawPing struct {
	Description          string          `yaml:"description"`
	IncludeClientID      bool            `yaml:"include_client_id"`
	SendIfEmpty          bool            `yaml:"send_if_empty"`
	Reasons              yaml.Node       `yaml:"reasons"`
	Metadata             rawPingMetadata `yaml:"metadata"`
	Enabled              *bool           `yaml:"enabled"`
	UploaderCapabilities []string        `yaml:"uploader_capabilities"`
}

// rawPingMetadata holds the optional metadata block of a ping.
type rawPingMetadata struct {
	PreciseTimestamps        *bool    `yaml:"precise_timestamps"`
	IncludeInfoSections      *bool    `yaml:"include_info_sections"`
	PingSchedule             []string `yaml:"ping_schedule"`
	FollowsCollectionEnabled *bool    `yaml:"follows_collection_enabled"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
