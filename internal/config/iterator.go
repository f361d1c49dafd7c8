package config

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// maxLabelCombinations bounds the labels one pattern may expand to.
const maxLabelCombinations = 10000

// Iterator supplies the values substituted for one {name} placeholder.
type Iterator struct {
	name   string
	values []string
}

// rangeIterator yields start..end inclusive. An inverted range is empty.
func rangeIterator(name string, start, end int) *Iterator {
	it := &Iterator{name: name}
	for v := start; v <= end; v++ {
		it.values = append(it.values, strconv.Itoa(v))
	}
	return it
}

func listIterator(name string, values []string) *Iterator {
	return &Iterator{name: name, values: append([]string(nil), values...)}
}

// iteratorSet holds the iterators of a simulation section by name.
type iteratorSet map[string]*Iterator

func buildIterators(raw []RawIterator) (iteratorSet, error) {
	set := make(iteratorSet, len(raw))
	for _, r := range raw {
		ctx := resolveContext{}.push("iterator", r.Name)
		if r.Name == "" {
			return nil, ctx.error("name cannot be empty")
		}
		if _, dup := set[r.Name]; dup {
			return nil, ctx.error("defined twice")
		}

		switch r.Type {
		case "range":
			if r.Start == nil || r.End == nil {
				return nil, ctx.error("start and end required for range type")
			}
			set[r.Name] = rangeIterator(r.Name, *r.Start, *r.End)
		case "list":
			if len(r.Values) == 0 {
				return nil, ctx.error("values required for list type")
			}
			set[r.Name] = listIterator(r.Name, r.Values)
		default:
			return nil, ctx.error(fmt.Sprintf("unknown type %q (must be range or list)", r.Type))
		}
	}
	return set, nil
}

func (s iteratorSet) lookup(names []string) ([]*Iterator, error) {
	out := make([]*Iterator, len(names))
	for i, name := range names {
		it, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("iterator %q not defined", name)
		}
		out[i] = it
	}
	return out, nil
}

// combinations yields every assignment of one value per iterator. The first
// iterator varies fastest.
func combinations(its []*Iterator) iter.Seq[map[string]string] {
	return func(yield func(map[string]string) bool) {
		idx := make([]int, len(its))
		for _, it := range its {
			if len(it.values) == 0 {
				return
			}
		}
		for {
			combo := make(map[string]string, len(its))
			for i, it := range its {
				combo[it.name] = it.values[idx[i]]
			}
			if !yield(combo) {
				return
			}

			// Odometer step
			i := 0
			for ; i < len(its); i++ {
				idx[i]++
				if idx[i] < len(its[i].values) {
					break
				}
				idx[i] = 0
			}
			if i == len(its) {
				return
			}
		}
	}
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// placeholders returns the distinct iterator names referenced by pattern in
// order of first appearance.
func placeholders(pattern string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(pattern, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// expandPattern substitutes every combination of the referenced iterators
// into pattern. A pattern without placeholders expands to itself.
func expandPattern(pattern string, set iteratorSet) ([]string, error) {
	names := placeholders(pattern)
	if len(names) == 0 {
		return []string{pattern}, nil
	}
	its, err := set.lookup(names)
	if err != nil {
		return nil, err
	}

	total := 1
	for _, it := range its {
		total *= len(it.values)
		if total > maxLabelCombinations {
			return nil, fmt.Errorf("pattern expands to more than %d labels", maxLabelCombinations)
		}
	}

	out := make([]string, 0, total)
	for combo := range combinations(its) {
		s := pattern
		for name, v := range combo {
			s = strings.ReplaceAll(s, "{"+name+"}", v)
		}
		out = append(out, s)
	}
	return out, nil
}
