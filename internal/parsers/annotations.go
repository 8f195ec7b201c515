package parsers

import (
	"strings"

	"codegraph/internal/graph"
)

// dedup removes duplicates and blank entries, preserving first-seen order.
func dedup(xs []string) []string {
	var out []string
	seen := make(map[string]bool, len(xs))
	for _, x := range xs {
		if strings.TrimSpace(x) == "" || seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

// stripQuotes removes one pair of matching single or double quotes.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// newArg builds the normalized argument record: the full list form plus a
// scalar convenience value (first element, comma-joined when there are many).
func newArg(values []string) graph.AnnotationArg {
	values = dedup(values)
	arg := graph.AnnotationArg{Values: values}
	switch len(values) {
	case 0:
	case 1:
		arg.Value = values[0]
	default:
		arg.Value = strings.Join(values, ",")
	}
	return arg
}

// argValues returns the list form of the named argument.
func argValues(a graph.Annotation, name string) []string {
	if arg, ok := a.Args[name]; ok {
		return arg.Values
	}
	return nil
}

// argValue returns the scalar form of the named argument.
func argValue(a graph.Annotation, name string) string {
	if arg, ok := a.Args[name]; ok {
		return arg.Value
	}
	return ""
}

// firstArgValue returns the first non-empty scalar among the named arguments.
func firstArgValue(a graph.Annotation, names ...string) string {
	for _, n := range names {
		if v := argValue(a, n); v != "" {
			return v
		}
	}
	return ""
}

// parseTriBool interprets an annotation argument as a boolean. Absent or
// unrecognized values stay nil: "unknown", not false.
func parseTriBool(s string) *bool {
	switch strings.ToLower(s) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// renderAnnotation produces the display text of an annotation record, used
// by prefix-matching queries: "@GetMapping(/items, produces=application/json)".
func renderAnnotation(name string, args map[string]graph.AnnotationArg) string {
	if len(args) == 0 {
		return name
	}
	var parts []string
	if vs := args["value"].Values; len(vs) > 0 {
		parts = append(parts, strings.Join(vs, ", "))
	}
	for _, key := range []string{"path", "consumes", "produces", "params", "headers", "name", "method"} {
		arg, ok := args[key]
		if !ok {
			continue
		}
		if len(arg.Values) > 0 {
			parts = append(parts, key+"="+strings.Join(arg.Values, ", "))
		} else if arg.Value != "" {
			parts = append(parts, key+"="+arg.Value)
		}
	}
	if len(parts) == 0 {
		return name
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// annotationNames projects the raw name list out of annotation records.
func annotationNames(annos []graph.Annotation) []string {
	out := make([]string, 0, len(annos))
	for _, a := range annos {
		out = append(out, a.Name)
	}
	return out
}
