package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

var (
	// ErrNoMetrics is returned when the schema parses but declares nothing.
	ErrNoMetrics = errors.New("no metrics found")
	// ErrNoPings is returned by LoadPings when no ping is declared.
	ErrNoPings = errors.New("no pings found")
)

// ValidationError carries every message the schema parser reported.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n\n")
}

// Option configures a load.
type Option func(*loadOptions)

type loadOptions struct {
	config map[string]any
	parser schema.Parser
	engine metrics.Engine
}

// WithConfig sets the options forwarded verbatim to the schema parser.
func WithConfig(config map[string]any) Option {
	return func(o *loadOptions) {
		o.config = config
	}
}

// WithParser replaces the default YAML schema parser.
func WithParser(p schema.Parser) Option {
	return func(o *loadOptions) {
		o.parser = p
	}
}

// WithEngine sets the engine metric instances record into.
func WithEngine(e metrics.Engine) Option {
	return func(o *loadOptions) {
		o.engine = e
	}
}

// LoadMetrics parses the schema files at paths and returns the root of the
// metrics tree.
func LoadMetrics(paths []string, opts ...Option) (*Namespace, error) {
	o := loadOptions{config: map[string]any{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parser == nil {
		o.parser = schema.NewYAMLParser()
	}

	result := o.parser.Parse(paths, o.config)
	if len(result.Errors) > 0 {
		return nil, &ValidationError{Messages: result.Errors}
	}
	if result.Len() == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoMetrics, paths)
	}

	root, err := buildNamespace(result.Categories, &factory{engine: o.engine})
	if err != nil {
		return nil, err
	}

	slog.Info("loaded metrics",
		"paths", paths,
		"categories", len(result.Categories),
		"descriptors", result.Len(),
		"objects", root.Len())

	return root, nil
}

// LoadPings parses the schema files at paths and returns the pings sub-tree.
func LoadPings(paths []string, opts ...Option) (*Namespace, error) {
	root, err := LoadMetrics(paths, opts...)
	if err != nil {
		return nil, err
	}
	pings, ok := root.Pings()
	if !ok {
		return nil, fmt.Errorf("%w in %v", ErrNoPings, paths)
	}
	return pings, nil
}
