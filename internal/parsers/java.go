package parsers

import (
	"strings"

	"codegraph/internal/graph"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// javaParser is the tree-sitter Java front end (official bindings).
type javaParser struct {
	language *sitter.Language
}

// NewJavaParser creates the default Java front end.
func NewJavaParser() *javaParser {
	return &javaParser{language: sitter.NewLanguage(java.Language())}
}

// Language returns "java".
func (p *javaParser) Language() string { return LangJava }

// Parse parses one Java compilation unit.
func (p *javaParser) Parse(src []byte, path string) ([]graph.Node, []graph.Edge, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, nil, &ParseError{Path: path, Reason: "tree-sitter returned no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, &ParseError{Path: path, Reason: "syntax error"}
	}

	f := scanJavaTree(root, src)
	nodes, edges := emitJava(f, path)
	return nodes, edges, nil
}

var javaTypeNodeKinds = []string{
	"type_identifier", "integral_type", "floating_point_type", "boolean_type",
	"void_type", "scoped_type_identifier", "generic_type", "array_type",
}

// scanJavaTree converts the parsed tree into the neutral Java form.
func scanJavaTree(root *sitter.Node, src []byte) *javaFile {
	f := &javaFile{}

	for i := 0; i < int(root.ChildCount()); i++ {
		ch := root.Child(uint(i))
		switch ch.Kind() {
		case "package_declaration":
			if name := findChildByType(ch, "scoped_identifier"); name != nil {
				f.Package = extractNodeText(name, src)
			} else if name := findChildByType(ch, "identifier"); name != nil {
				f.Package = extractNodeText(name, src)
			}
		case "import_declaration":
			imp := extractNodeText(ch, src)
			imp = strings.TrimPrefix(imp, "import")
			imp = strings.ReplaceAll(imp, "static", "")
			imp = strings.TrimSuffix(strings.TrimSpace(imp), ";")
			f.Imports = append(f.Imports, strings.TrimSpace(imp))
		case "class_declaration", "interface_declaration", "enum_declaration":
			if td := scanJavaType(ch, src); td != nil {
				f.Types = append(f.Types, *td)
			}
		}
	}
	return f
}

func scanJavaType(node *sitter.Node, src []byte) *javaType {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	td := &javaType{
		Name:   extractNodeText(nameNode, src),
		Line:   int(node.StartPosition().Row) + 1,
		Fields: map[string]string{},
	}
	switch node.Kind() {
	case "interface_declaration":
		td.Kind = graph.NodeInterface
	case "enum_declaration":
		td.Kind = graph.NodeEnum
	default:
		td.Kind = graph.NodeClass
	}

	td.Modifiers, td.Annotations = scanModifiers(node, src)

	for i := 0; i < int(node.ChildCount()); i++ {
		ch := node.Child(uint(i))
		switch ch.Kind() {
		case "superclass":
			for _, t := range typeNamesIn(ch, src) {
				td.Extends = append(td.Extends, t)
			}
		case "extends_interfaces":
			// interface Foo extends Bar, Baz
			for _, t := range typeNamesIn(ch, src) {
				td.Extends = append(td.Extends, t)
			}
		case "super_interfaces":
			for _, t := range typeNamesIn(ch, src) {
				td.Implements = append(td.Implements, t)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return td
	}
	scanJavaBody(body, src, td)
	return td
}

func scanJavaBody(body *sitter.Node, src []byte, td *javaType) {
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(uint(i))
		switch member.Kind() {
		case "field_declaration":
			ftype := ""
			if t := member.ChildByFieldName("type"); t != nil {
				ftype = extractNodeText(t, src)
			}
			for _, decl := range findChildrenByType(member, "variable_declarator") {
				if name := decl.ChildByFieldName("name"); name != nil {
					td.Fields[extractNodeText(name, src)] = ftype
				}
			}
		case "method_declaration":
			if m := scanJavaMethod(member, src); m != nil {
				td.Methods = append(td.Methods, *m)
			}
		case "enum_body_declarations":
			scanJavaBody(member, src, td)
		}
	}
}

func scanJavaMethod(node *sitter.Node, src []byte) *javaMethod {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	m := &javaMethod{
		Name: extractNodeText(nameNode, src),
		Line: int(node.StartPosition().Row) + 1,
	}
	m.Modifiers, m.Annotations = scanModifiers(node, src)
	if t := node.ChildByFieldName("type"); t != nil {
		m.Returns = extractNodeText(t, src)
	}

	if formals := node.ChildByFieldName("parameters"); formals != nil {
		for i := 0; i < int(formals.ChildCount()); i++ {
			pn := formals.Child(uint(i))
			if pn.Kind() != "formal_parameter" && pn.Kind() != "spread_parameter" && pn.Kind() != "receiver_parameter" {
				continue
			}
			m.Params = append(m.Params, scanJavaParam(pn, src))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		walkTree(body, func(n *sitter.Node) bool {
			if n.Kind() != "method_invocation" {
				return true
			}
			callee := ""
			if name := n.ChildByFieldName("name"); name != nil {
				callee = extractNodeText(name, src)
			}
			qual := ""
			if obj := n.ChildByFieldName("object"); obj != nil {
				qual = extractNodeText(obj, src)
			}
			if callee != "" {
				m.Calls = append(m.Calls, javaCall{Callee: callee, Qualifier: qual})
			}
			return true
		})
	}
	return m
}

func scanJavaParam(node *sitter.Node, src []byte) javaParam {
	p := javaParam{}
	if name := node.ChildByFieldName("name"); name != nil {
		p.Name = strings.SplitN(extractNodeText(name, src), "[", 2)[0]
	}
	if t := node.ChildByFieldName("type"); t != nil {
		p.Type = extractNodeText(t, src)
	}
	// Fallback for parameter shapes without named fields (varargs).
	for i := 0; i < int(node.ChildCount()) && (p.Name == "" || p.Type == ""); i++ {
		ch := node.Child(uint(i))
		switch {
		case ch.Kind() == "identifier" && p.Name == "":
			p.Name = extractNodeText(ch, src)
		case ch.Kind() == "variable_declarator" && p.Name == "":
			if name := ch.ChildByFieldName("name"); name != nil {
				p.Name = extractNodeText(name, src)
			}
		case p.Type == "" && isJavaTypeKind(ch.Kind()):
			p.Type = extractNodeText(ch, src)
		}
	}
	_, p.Annotations = scanModifiers(node, src)
	return p
}

// scanModifiers splits a declaration's modifiers child into keyword modifiers
// and annotation records.
func scanModifiers(node *sitter.Node, src []byte) ([]string, []graph.Annotation) {
	mods := findChildByType(node, "modifiers")
	if mods == nil {
		return nil, nil
	}

	var keywords []string
	var annos []graph.Annotation
	for i := 0; i < int(mods.ChildCount()); i++ {
		ch := mods.Child(uint(i))
		switch ch.Kind() {
		case "annotation", "marker_annotation":
			annos = append(annos, scanAnnotation(ch, src))
		default:
			keywords = append(keywords, extractNodeText(ch, src))
		}
	}
	return keywords, annos
}

func scanAnnotation(node *sitter.Node, src []byte) graph.Annotation {
	name := "@"
	if n := node.ChildByFieldName("name"); n != nil {
		name += extractNodeText(n, src)
	} else {
		name += strings.TrimPrefix(strings.SplitN(extractNodeText(node, src), "(", 2)[0], "@")
	}

	args := map[string]graph.AnnotationArg{}
	if argList := node.ChildByFieldName("arguments"); argList != nil {
		scanAnnotationArgs(argList, src, args)
	}
	if len(args) == 0 {
		args = nil
	}

	return graph.Annotation{
		Name: name,
		Full: renderAnnotation(name, args),
		Args: args,
	}
}

// scanAnnotationArgs handles both forms of an annotation argument list:
// key = value pairs, and a bare single value stored under "value".
func scanAnnotationArgs(argList *sitter.Node, src []byte, out map[string]graph.AnnotationArg) {
	sawPair := false
	for i := 0; i < int(argList.ChildCount()); i++ {
		ch := argList.Child(uint(i))
		if ch.Kind() != "element_value_pair" {
			continue
		}
		sawPair = true
		key := ch.ChildByFieldName("key")
		value := ch.ChildByFieldName("value")
		if key != nil && value != nil {
			out[extractNodeText(key, src)] = newArg(elementValues(value, src))
		}
	}
	if sawPair {
		return
	}
	for i := 0; i < int(argList.ChildCount()); i++ {
		ch := argList.Child(uint(i))
		switch ch.Kind() {
		case "(", ")", ",":
			continue
		}
		out["value"] = newArg(elementValues(ch, src))
		return
	}
}

// elementValues flattens an annotation element value to its string list:
// literals are unquoted, array initializers recurse, references keep their
// source text.
func elementValues(node *sitter.Node, src []byte) []string {
	switch node.Kind() {
	case "string_literal":
		return []string{stripQuotes(extractNodeText(node, src))}
	case "element_value_array_initializer":
		var vals []string
		for i := 0; i < int(node.ChildCount()); i++ {
			ch := node.Child(uint(i))
			switch ch.Kind() {
			case "{", "}", ",":
				continue
			}
			vals = append(vals, elementValues(ch, src)...)
		}
		return dedup(vals)
	default:
		return []string{extractNodeText(node, src)}
	}
}

// typeNamesIn collects type identifiers under a superclass/super_interfaces
// clause, unwrapping generic arguments to the raw type name.
func typeNamesIn(clause *sitter.Node, src []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Kind() {
		case "type_identifier", "scoped_type_identifier":
			out = append(out, extractNodeText(n, src))
			return
		case "generic_type":
			// Foo<Bar> extends the raw type Foo.
			for i := 0; i < int(n.ChildCount()); i++ {
				ch := n.Child(uint(i))
				if ch.Kind() == "type_identifier" || ch.Kind() == "scoped_type_identifier" {
					out = append(out, extractNodeText(ch, src))
					return
				}
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(uint(i)))
		}
	}
	for i := 0; i < int(clause.ChildCount()); i++ {
		visit(clause.Child(uint(i)))
	}
	return out
}

func isJavaTypeKind(kind string) bool {
	for _, t := range javaTypeNodeKinds {
		if kind == t {
			return true
		}
	}
	return false
}
