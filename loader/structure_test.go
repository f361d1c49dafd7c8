package loader

import (
	"testing"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalar(typ string) *schema.StructureNode {
	return &schema.StructureNode{Type: typ}
}

func typeNames(types []*metrics.RecordType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return names
}

func TestGenerateStructureScalarProperty(t *testing.T) {
	node := &schema.StructureNode{
		Type:       "object",
		Properties: []schema.Property{{Name: "enabled", Node: scalar("boolean")}},
	}

	s, err := generateStructure("StatusObject", node)
	require.NoError(t, err)

	require.Equal(t, []string{"StatusObject"}, typeNames(s.Types))
	require.Same(t, s.Types[0], s.Root)
	require.Equal(t, metrics.RecordObject, s.Root.Kind())

	f, ok := s.Root.Field("enabled")
	require.True(t, ok)
	assert.Equal(t, metrics.ScalarBoolean, f.Type.Scalar)
}

func TestGenerateStructureNested(t *testing.T) {
	node := &schema.StructureNode{
		Type: "array",
		Items: &schema.StructureNode{
			Type: "object",
			Properties: []schema.Property{
				{Name: "name", Node: scalar("string")},
				{Name: "frames", Node: &schema.StructureNode{Type: "array", Items: scalar("string")}},
				{Name: "module_info", Node: &schema.StructureNode{
					Type:       "object",
					Properties: []schema.Property{{Name: "size", Node: scalar("number")}},
				}},
			},
		},
	}

	s, err := generateStructure("ThreadsObject", node)
	require.NoError(t, err)

	require.Equal(t, []string{
		"ThreadsObject",
		"ThreadsObjectItemItemFrames",
		"ThreadsObjectItemItemModuleInfoObject",
		"ThreadsObjectItem",
	}, typeNames(s.Types))
	require.Equal(t, "ThreadsObject", s.Root.Name())
	require.Equal(t, metrics.RecordArray, s.Root.Kind())

	item := s.Root.Item().Record
	require.NotNil(t, item)
	require.Equal(t, "ThreadsObjectItem", item.Name())

	frames, ok := item.Field("frames")
	require.True(t, ok)
	require.Equal(t, metrics.RecordArray, frames.Type.Record.Kind())
	require.Equal(t, metrics.ScalarString, frames.Type.Record.Item().Scalar)

	info, ok := item.Field("module_info")
	require.True(t, ok)
	size, ok := info.Type.Record.Field("size")
	require.True(t, ok)
	require.Equal(t, metrics.ScalarNumber, size.Type.Scalar)
}

func TestGenerateStructureUnsupportedType(t *testing.T) {
	tests := []struct {
		name string
		node *schema.StructureNode
	}{
		{"root", scalar("integer")},
		{"property", &schema.StructureNode{
			Type:       "object",
			Properties: []schema.Property{{Name: "n", Node: scalar("integer")}},
		}},
		{"array item", &schema.StructureNode{Type: "array", Items: scalar("map")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generateStructure("X", tt.node)
			require.ErrorIs(t, err, ErrUnsupportedStructure)
		})
	}
}

func TestGenerateStructureArrayWithoutItems(t *testing.T) {
	_, err := generateStructure("X", &schema.StructureNode{Type: "array"})
	require.Error(t, err)
}

func TestGenerateStructurePropertyWithoutNode(t *testing.T) {
	node := &schema.StructureNode{
		Type: "object",
		Properties: []schema.Property{
			{Name: "ok", Node: &schema.StructureNode{Type: "string"}},
			{Name: "hollow"},
		},
	}
	_, err := generateStructure("StatusObject", node)
	require.ErrorContains(t, err, `property "hollow" of StatusObject has no structure`)
}

func TestCamelize(t *testing.T) {
	tests := map[string]string{
		"click_extra":           "ClickExtra",
		"baseline_reason_codes": "BaselineReasonCodes",
		"requests-sent_object":  "RequestsSentObject",
		"module_info":           "ModuleInfo",
		"already_CamelCase":     "AlreadyCamelCase",
		"dotted.name":           "DottedName",
		"mixedCase_tail":        "MixedCaseTail",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelize(in), in)
	}
}
