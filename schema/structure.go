package schema

import (
	"fmt"

	"go.yaml.in/yaml/v4"
)

// StructureNode is one node of an object metric's structure.
type StructureNode struct {
	Type       string
	Properties []Property
	Items      *StructureNode
}

// Property is a named member of an object node.
type Property struct {
	Name string
	Node *StructureNode
}

// Depth returns the number of nested nodes on the longest path from n.
func (n *StructureNode) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	if n.Items != nil {
		deepest = n.Items.Depth()
	}
	for _, p := range n.Properties {
		if d := p.Node.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// UnmarshalYAML keeps properties in document order.
func (n *StructureNode) UnmarshalYAML(value *yaml.Node) error {
	type structureNode struct {
		Type       string         `yaml:"type"`
		Properties yaml.Node      `yaml:"properties"`
		Items      *StructureNode `yaml:"items"`
	}
	var raw structureNode
	if err := value.Decode(&raw); err != nil {
		return err
	}

	n.Type = raw.Type
	n.Items = raw.Items
	n.Properties = nil

	if raw.Properties.Kind == 0 {
		return nil
	}
	if raw.Properties.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", raw.Properties.Line)
	}
	for i := 0; i+1 < len(raw.Properties.Content); i += 2 {
		child := &StructureNode{}
		if err := raw.Properties.Content[i+1].Decode(child); err != nil {
			return err
		}
		n.Properties = append(n.Properties, Property{
			Name: raw.Properties.Content[i].Value,
			Node: child,
		})
	}
	return nil
}
