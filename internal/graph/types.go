package graph

// NodeKind represents the type of a code entity.
type NodeKind string

const (
	NodeFile      NodeKind = "file"
	NodeClass     NodeKind = "class"
	NodeInterface NodeKind = "interface"
	NodeEnum      NodeKind = "enum"
	NodeMethod    NodeKind = "method"
	NodeFunction  NodeKind = "function"
)

// IsType reports whether the kind is a type declaration (class, interface, enum).
func (k NodeKind) IsType() bool {
	return k == NodeClass || k == NodeInterface || k == NodeEnum
}

// EdgeType represents the type of relationship between nodes.
type EdgeType string

const (
	EdgeContains    EdgeType = "contains"
	EdgeExtends     EdgeType = "extends"
	EdgeImplements  EdgeType = "implements"
	EdgeOverrides   EdgeType = "overrides"
	EdgeCalls       EdgeType = "calls"
	EdgeAnnotatedBy EdgeType = "annotated_by"
	EdgeImports     EdgeType = "imports"
)

// Param is one declared parameter of a method or function. Type is empty
// when the source language does not declare one.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Node represents one code entity with its source location.
type Node struct {
	ID          string   `json:"id"`                    // namespaced identifier, e.g. "java::com.acme.Foo" or "file::src/Foo.java"
	Kind        NodeKind `json:"kind"`                  // entity kind
	Name        string   `json:"name,omitempty"`        // simple name
	FQN         string   `json:"fqn,omitempty"`         // fully qualified name (file path for file nodes)
	File        string   `json:"file,omitempty"`        // source file path
	Line        int      `json:"line,omitempty"`        // 1-indexed declaration line
	Modifiers   []string `json:"modifiers,omitempty"`   // e.g. public, static
	Annotations []string `json:"annotations,omitempty"` // raw annotation/decorator names, e.g. "@GetMapping"
	Params      []Param  `json:"params,omitempty"`      // methods/functions only
	Returns     string   `json:"returns,omitempty"`     // declared return type
	Extras      *Extras  `json:"extras,omitempty"`
}

// Extras is the open extension section of a node. Each field is an optional
// record; unset fields are omitted from the export.
type Extras struct {
	// ParseError carries the front-end failure text on a degraded file node.
	ParseError string `json:"parse_error,omitempty"`

	// Fields maps field name to declared type on class nodes.
	Fields map[string]string `json:"fields,omitempty"`

	// AnnotationDetails holds the structured annotation records in the same
	// order as Node.Annotations.
	AnnotationDetails []Annotation `json:"annotation_details,omitempty"`

	// HTTP is the derived route record for framework-annotated methods, or
	// the raw class-level mapping for annotated classes.
	HTTP *RouteInfo `json:"http,omitempty"`
}

// Annotation is one normalized annotation or decorator occurrence.
type Annotation struct {
	Name string                   `json:"name"`           // "@GetMapping"
	Full string                   `json:"full,omitempty"` // rendered text, "@GetMapping(/items)"
	Args map[string]AnnotationArg `json:"args,omitempty"`
}

// AnnotationArg is one annotation argument in both scalar and list form.
// Value is the first element, or a comma join when there are several.
type AnnotationArg struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Texts renders the full text of each annotation record.
func (e *Extras) Texts() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.AnnotationDetails))
	for _, a := range e.AnnotationDetails {
		out = append(out, a.Full)
	}
	return out
}

// CallMeta is the extras record of a Calls edge. Qualifier, Package and
// Imports describe the call site; Resolved is set by the call-resolution pass.
type CallMeta struct {
	Qualifier string   `json:"qualifier,omitempty"`
	Package   string   `json:"package,omitempty"`
	Imports   []string `json:"imports,omitempty"`
	Resolved  bool     `json:"resolved,omitempty"`
}

// Edge represents one typed directed relation between two node identifiers.
// Multiple edges between the same ordered pair are legal.
type Edge struct {
	Src  string    `json:"src"`
	Dst  string    `json:"dst"`
	Type EdgeType  `json:"type"`
	Call *CallMeta `json:"call,omitempty"` // Calls edges only
}
