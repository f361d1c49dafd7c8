package loader

import (
	"errors"
	"fmt"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

// ErrUnsupportedStructure is returned for a structure node of unknown type.
var ErrUnsupportedStructure = errors.New("unsupported object structure type")

// Structure is the set of record types generated for one object metric.
type Structure struct {
	// Root is the type values of the metric must have.
	Root *metrics.RecordType
	// Types lists every generated type: an array type precedes its item
	// types, nested property types precede the object that holds them.
	Types []*metrics.RecordType
}

// generateStructure walks node and generates a record type for every object
// and array node in it.
func generateStructure(name string, node *schema.StructureNode) (*Structure, error) {
	if node == nil {
		return nil, fmt.Errorf("object %s has no structure", name)
	}
	g := &structureGenerator{}
	root, err := g.generate(name, node, node.Depth())
	if err != nil {
		return nil, err
	}
	return &Structure{Root: root, Types: g.types}, nil
}

type structureGenerator struct {
	types []*metrics.RecordType
}

// generate emits the record type for an object or array node. budget is the
// remaining depth of the input tree and strictly decreases on every nested
// call, so the walk ends after at most Depth() levels.
func (g *structureGenerator) generate(name string, node *schema.StructureNode, budget int) (*metrics.RecordType, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("structure %s nests deeper than its declared depth", name)
	}

	switch node.Type {
	case "array":
		if node.Items == nil {
			return nil, fmt.Errorf("array %s declares no items", name)
		}
		// Reserve the array's slot so it precedes its item types
		slot := len(g.types)
		g.types = append(g.types, nil)

		item, err := g.fieldType(name+"Item", node.Items, budget-1)
		if err != nil {
			return nil, err
		}
		arr := metrics.NewArrayType(name, item)
		g.types[slot] = arr
		return arr, nil

	case "object":
		fields := make([]metrics.Field, 0, len(node.Properties))
		for _, prop := range node.Properties {
			if prop.Node == nil {
				return nil, fmt.Errorf("property %q of %s has no structure", prop.Name, name)
			}
			typeName := name + "Item" + camelize(prop.Name)
			if prop.Node.Type == "object" {
				typeName += "Object"
			}
			ft, err := g.fieldType(typeName, prop.Node, budget-1)
			if err != nil {
				return nil, fmt.Errorf("property %q of %s: %w", prop.Name, name, err)
			}
			fields = append(fields, metrics.Field{Name: prop.Name, Type: ft})
		}
		obj := metrics.NewObjectType(name, fields)
		g.types = append(g.types, obj)
		return obj, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStructure, node.Type)
	}
}

// fieldType resolves the type of a property or array item, generating
// nested record types as needed.
func (g *structureGenerator) fieldType(name string, node *schema.StructureNode, budget int) (metrics.FieldType, error) {
	switch node.Type {
	case "object", "array":
		nested, err := g.generate(name, node, budget)
		if err != nil {
			return metrics.FieldType{}, err
		}
		return metrics.FieldType{Record: nested}, nil
	default:
		scalar, err := scalarType(node.Type)
		if err != nil {
			return metrics.FieldType{}, err
		}
		return metrics.FieldType{Scalar: scalar}, nil
	}
}

func scalarType(typ string) (metrics.ScalarType, error) {
	switch typ {
	case "boolean":
		return metrics.ScalarBoolean, nil
	case "string":
		return metrics.ScalarString, nil
	case "number":
		return metrics.ScalarNumber, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStructure, typ)
	}
}
