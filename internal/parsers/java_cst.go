package parsers

import (
	"context"
	"strings"

	"codegraph/internal/graph"

	cst "github.com/smacker/go-tree-sitter"
	cstjava "github.com/smacker/go-tree-sitter/java"
)

// javaCSTParser is the alternate Java front end built on the generic
// concrete-syntax-tree parser. It scans into the same neutral form as the
// default backend, so both emit structurally equivalent graphs.
type javaCSTParser struct {
	language *cst.Language
}

// NewJavaCSTParser creates the CST-backed Java front end.
func NewJavaCSTParser() *javaCSTParser {
	return &javaCSTParser{language: cstjava.GetLanguage()}
}

// Language returns "java".
func (p *javaCSTParser) Language() string { return LangJava }

// Parse parses one Java compilation unit.
func (p *javaCSTParser) Parse(src []byte, path string) ([]graph.Node, []graph.Edge, error) {
	parser := cst.NewParser()
	parser.SetLanguage(p.language)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, &ParseError{Path: path, Reason: err.Error()}
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, &ParseError{Path: path, Reason: "syntax error"}
	}

	f := scanJavaCST(root, src)
	nodes, edges := emitJava(f, path)
	return nodes, edges, nil
}

func scanJavaCST(root *cst.Node, src []byte) *javaFile {
	f := &javaFile{}

	for i := 0; i < int(root.ChildCount()); i++ {
		ch := root.Child(i)
		switch ch.Type() {
		case "package_declaration":
			if name := cstChildByType(ch, "scoped_identifier"); name != nil {
				f.Package = name.Content(src)
			} else if name := cstChildByType(ch, "identifier"); name != nil {
				f.Package = name.Content(src)
			}
		case "import_declaration":
			imp := ch.Content(src)
			imp = strings.TrimPrefix(imp, "import")
			imp = strings.ReplaceAll(imp, "static", "")
			imp = strings.TrimSuffix(strings.TrimSpace(imp), ";")
			f.Imports = append(f.Imports, strings.TrimSpace(imp))
		case "class_declaration", "interface_declaration", "enum_declaration":
			if td := scanJavaCSTType(ch, src); td != nil {
				f.Types = append(f.Types, *td)
			}
		}
	}
	return f
}

func scanJavaCSTType(node *cst.Node, src []byte) *javaType {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	td := &javaType{
		Name:   nameNode.Content(src),
		Line:   int(node.StartPoint().Row) + 1,
		Fields: map[string]string{},
	}
	switch node.Type() {
	case "interface_declaration":
		td.Kind = graph.NodeInterface
	case "enum_declaration":
		td.Kind = graph.NodeEnum
	default:
		td.Kind = graph.NodeClass
	}

	td.Modifiers, td.Annotations = scanCSTModifiers(node, src)

	for i := 0; i < int(node.ChildCount()); i++ {
		ch := node.Child(i)
		switch ch.Type() {
		case "superclass", "extends_interfaces":
			td.Extends = append(td.Extends, cstTypeNamesIn(ch, src)...)
		case "super_interfaces":
			td.Implements = append(td.Implements, cstTypeNamesIn(ch, src)...)
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return td
	}
	scanJavaCSTBody(body, src, td)
	return td
}

func scanJavaCSTBody(body *cst.Node, src []byte, td *javaType) {
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "field_declaration":
			ftype := ""
			if t := member.ChildByFieldName("type"); t != nil {
				ftype = t.Content(src)
			}
			for j := 0; j < int(member.ChildCount()); j++ {
				decl := member.Child(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				if name := decl.ChildByFieldName("name"); name != nil {
					td.Fields[name.Content(src)] = ftype
				}
			}
		case "method_declaration":
			if m := scanJavaCSTMethod(member, src); m != nil {
				td.Methods = append(td.Methods, *m)
			}
		case "enum_body_declarations":
			scanJavaCSTBody(member, src, td)
		}
	}
}

func scanJavaCSTMethod(node *cst.Node, src []byte) *javaMethod {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	m := &javaMethod{
		Name: nameNode.Content(src),
		Line: int(node.StartPoint().Row) + 1,
	}
	m.Modifiers, m.Annotations = scanCSTModifiers(node, src)
	if t := node.ChildByFieldName("type"); t != nil {
		m.Returns = t.Content(src)
	}

	if formals := node.ChildByFieldName("parameters"); formals != nil {
		for i := 0; i < int(formals.ChildCount()); i++ {
			pn := formals.Child(i)
			if pn.Type() != "formal_parameter" && pn.Type() != "spread_parameter" && pn.Type() != "receiver_parameter" {
				continue
			}
			m.Params = append(m.Params, scanJavaCSTParam(pn, src))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		cstWalk(body, func(n *cst.Node) bool {
			if n.Type() != "method_invocation" {
				return true
			}
			callee := ""
			if name := n.ChildByFieldName("name"); name != nil {
				callee = name.Content(src)
			}
			qual := ""
			if obj := n.ChildByFieldName("object"); obj != nil {
				qual = obj.Content(src)
			}
			if callee != "" {
				m.Calls = append(m.Calls, javaCall{Callee: callee, Qualifier: qual})
			}
			return true
		})
	}
	return m
}

func scanJavaCSTParam(node *cst.Node, src []byte) javaParam {
	p := javaParam{}
	if name := node.ChildByFieldName("name"); name != nil {
		p.Name = strings.SplitN(name.Content(src), "[", 2)[0]
	}
	if t := node.ChildByFieldName("type"); t != nil {
		p.Type = t.Content(src)
	}
	for i := 0; i < int(node.ChildCount()) && (p.Name == "" || p.Type == ""); i++ {
		ch := node.Child(i)
		switch {
		case ch.Type() == "identifier" && p.Name == "":
			p.Name = ch.Content(src)
		case ch.Type() == "variable_declarator" && p.Name == "":
			if name := ch.ChildByFieldName("name"); name != nil {
				p.Name = name.Content(src)
			}
		case p.Type == "" && isJavaTypeKind(ch.Type()):
			p.Type = ch.Content(src)
		}
	}
	_, p.Annotations = scanCSTModifiers(node, src)
	return p
}

func scanCSTModifiers(node *cst.Node, src []byte) ([]string, []graph.Annotation) {
	mods := cstChildByType(node, "modifiers")
	if mods == nil {
		return nil, nil
	}

	var keywords []string
	var annos []graph.Annotation
	for i := 0; i < int(mods.ChildCount()); i++ {
		ch := mods.Child(i)
		switch ch.Type() {
		case "annotation", "marker_annotation":
			annos = append(annos, scanCSTAnnotation(ch, src))
		default:
			keywords = append(keywords, ch.Content(src))
		}
	}
	return keywords, annos
}

func scanCSTAnnotation(node *cst.Node, src []byte) graph.Annotation {
	name := "@"
	if n := node.ChildByFieldName("name"); n != nil {
		name += n.Content(src)
	} else {
		name += strings.TrimPrefix(strings.SplitN(node.Content(src), "(", 2)[0], "@")
	}

	args := map[string]graph.AnnotationArg{}
	argList := node.ChildByFieldName("arguments")
	if argList == nil {
		argList = cstChildByType(node, "annotation_argument_list")
	}
	if argList != nil {
		scanCSTAnnotationArgs(argList, src, args)
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

func scanCSTAnnotationArgs(argList *cst.Node, src []byte, out map[string]graph.AnnotationArg) {
	sawPair := false
	for i := 0; i < int(argList.ChildCount()); i++ {
		ch := argList.Child(i)
		if ch.Type() != "element_value_pair" {
			continue
		}
		sawPair = true
		key := ch.ChildByFieldName("key")
		value := ch.ChildByFieldName("value")
		if key != nil && value != nil {
			out[key.Content(src)] = newArg(cstElementValues(value, src))
		}
	}
	if sawPair {
		return
	}
	for i := 0; i < int(argList.ChildCount()); i++ {
		ch := argList.Child(i)
		switch ch.Type() {
		case "(", ")", ",":
			continue
		}
		out["value"] = newArg(cstElementValues(ch, src))
		return
	}
}

func cstElementValues(node *cst.Node, src []byte) []string {
	switch node.Type() {
	case "string_literal":
		return []string{stripQuotes(node.Content(src))}
	case "element_value_array_initializer":
		var vals []string
		for i := 0; i < int(node.ChildCount()); i++ {
			ch := node.Child(i)
			switch ch.Type() {
			case "{", "}", ",":
				continue
			}
			vals = append(vals, cstElementValues(ch, src)...)
		}
		return dedup(vals)
	default:
		return []string{node.Content(src)}
	}
}

func cstTypeNamesIn(clause *cst.Node, src []byte) []string {
	var out []string
	var visit func(n *cst.Node)
	visit = func(n *cst.Node) {
		switch n.Type() {
		case "type_identifier", "scoped_type_identifier":
			out = append(out, n.Content(src))
			return
		case "generic_type":
			for i := 0; i < int(n.ChildCount()); i++ {
				ch := n.Child(i)
				if ch.Type() == "type_identifier" || ch.Type() == "scoped_type_identifier" {
					out = append(out, ch.Content(src))
					return
				}
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	for i := 0; i < int(clause.ChildCount()); i++ {
		visit(clause.Child(i))
	}
	return out
}

func cstChildByType(node *cst.Node, nodeType string) *cst.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		ch := node.Child(i)
		if ch.Type() == nodeType {
			return ch
		}
	}
	return nil
}

func cstWalk(node *cst.Node, visitor func(*cst.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		cstWalk(node.Child(i), visitor)
	}
}
