package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neox5/gleanbox/metrics"
	"github.com/neox5/gleanbox/schema"
)

// ErrNotFound is returned by lookups of paths that do not exist.
var ErrNotFound = errors.New("not found")

// Namespace is a node of the metrics tree. Children are keyed by category
// path segment, objects by normalized name. A Namespace is not modified
// after the load that built it returns.
type Namespace struct {
	name     string
	path     string
	children map[string]*Namespace
	order    []string
	objects  map[string]Object
	names    []string
}

func newNamespace(name, path string) *Namespace {
	return &Namespace{
		name:     name,
		path:     path,
		children: make(map[string]*Namespace),
		objects:  make(map[string]Object),
	}
}

// Name returns the node's path segment ("" for the root).
func (n *Namespace) Name() string { return n.name }

// Path returns the dotted path of the node from the root.
func (n *Namespace) Path() string { return n.path }

// Child returns the direct child for segment.
func (n *Namespace) Child(segment string) (*Namespace, bool) {
	c, ok := n.children[segment]
	return c, ok
}

// Children returns direct children in insertion order.
func (n *Namespace) Children() []*Namespace {
	out := make([]*Namespace, len(n.order))
	for i, seg := range n.order {
		out[i] = n.children[seg]
	}
	return out
}

// Get returns the object stored directly on this node.
func (n *Namespace) Get(name string) (Object, bool) {
	o, ok := n.objects[name]
	return o, ok
}

// Names returns the names of objects stored directly on this node, in
// first-insertion order.
func (n *Namespace) Names() []string {
	return append([]string(nil), n.names...)
}

// Namespace resolves a dotted path to a descendant node.
func (n *Namespace) Namespace(path string) (*Namespace, bool) {
	cur := n
	for _, seg := range splitPath(path) {
		next, ok := cur.children[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Lookup resolves a dotted path whose last segment names an object.
func (n *Namespace) Lookup(path string) (Object, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return Object{}, false
	}
	parent, ok := n.Namespace(strings.Join(segs[:len(segs)-1], "."))
	if !ok {
		return Object{}, false
	}
	return parent.Get(segs[len(segs)-1])
}

// Metric resolves path to a primary instance.
func (n *Namespace) Metric(path string) (metrics.Metric, error) {
	o, ok := n.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return o.Metric()
}

// MetricAs resolves path to a primary instance of type T.
func MetricAs[T metrics.Metric](n *Namespace, path string) (T, error) {
	var zero T
	m, err := n.Metric(path)
	if err != nil {
		return zero, err
	}
	t, ok := m.(T)
	if !ok {
		return zero, fmt.Errorf("%s is a %s metric, not %T", path, m.Kind(), zero)
	}
	return t, nil
}

// Pings returns the distinguished "pings" sub-tree.
func (n *Namespace) Pings() (*Namespace, bool) {
	return n.Child(schema.PingsCategory)
}

// Len returns the number of objects in the subtree.
func (n *Namespace) Len() int {
	total := len(n.objects)
	for _, c := range n.children {
		total += c.Len()
	}
	return total
}

// Walk calls fn for every object in the subtree, depth first, objects of a
// node before its children. Walking stops at the first error.
func (n *Namespace) Walk(fn func(path string, obj Object) error) error {
	for _, name := range n.names {
		if err := fn(joinPath(n.path, name), n.objects[name]); err != nil {
			return err
		}
	}
	for _, seg := range n.order {
		if err := n.children[seg].Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// child returns the child for segment, creating it on first use.
func (n *Namespace) child(segment string) *Namespace {
	if c, ok := n.children[segment]; ok {
		return c
	}
	c := newNamespace(segment, joinPath(n.path, segment))
	n.children[segment] = c
	n.order = append(n.order, segment)
	return c
}

// set stores obj under name. An existing object with that name is replaced.
func (n *Namespace) set(name string, obj Object) {
	if _, exists := n.objects[name]; exists {
		slog.Debug("replacing namespace object", "path", joinPath(n.path, name))
	} else {
		n.names = append(n.names, name)
	}
	n.objects[name] = obj
}

// buildNamespace folds every descriptor into a tree keyed by category path.
func buildNamespace(categories []schema.Category, f *factory) (*Namespace, error) {
	root := newNamespace("", "")

	for _, category := range categories {
		cursor := root
		for _, seg := range splitPath(category.Name) {
			cursor = cursor.child(seg)
		}

		for _, d := range category.Metrics {
			entries, err := f.build(d.Name, d)
			if err != nil {
				return nil, buildError(category.Name, d.Name, err)
			}
			for _, e := range entries {
				cursor.set(normalizeName(e.name), e.object)
			}
		}
	}

	return root, nil
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
