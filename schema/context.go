package schema

import (
	"fmt"
	"strings"
)

// parseContext tracks where in the input an error was found.
type parseContext []string

func (ctx parseContext) push(component, name string) parseContext {
	next := make(parseContext, len(ctx), len(ctx)+1)
	copy(next, ctx)
	return append(next, fmt.Sprintf("%s %q", component, name))
}

func (ctx parseContext) errorf(format string, args ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, format, args...)
	// Innermost first (metric → category → file)
	for i := len(ctx) - 1; i >= 0; i-- {
		b.WriteString("\n  in ")
		b.WriteString(ctx[i])
	}
	return b.String()
}
