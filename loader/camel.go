package loader

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// camelize turns snake, kebab or dotted names into CamelCase, upper-casing
// the first letter of each part and leaving the rest untouched. Metric and
// property names are lowercase, so this matches lower-casing the tail, while
// mixed-case input keeps its inner capitals ("fooBar" stays "FooBar").
func camelize(name string) string {
	title := cases.Title(language.Und, cases.NoLower)
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(title.String(p))
	}
	return b.String()
}

// normalizeName maps kebab-case names to snake_case.
func normalizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
