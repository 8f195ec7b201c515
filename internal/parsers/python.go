package parsers

import (
	"path/filepath"

	"codegraph/internal/graph"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonParser extracts classes, functions, decorators, call sites, and
// imports from Python modules. Class names are qualified by their enclosing
// classes only; the module path is carried on the node's File field.
type pythonParser struct {
	language *sitter.Language
}

// NewPythonParser creates the Python front end.
func NewPythonParser() *pythonParser {
	return &pythonParser{language: sitter.NewLanguage(python.Language())}
}

// Language returns "python".
func (p *pythonParser) Language() string { return LangPython }

// Parse parses one Python module.
func (p *pythonParser) Parse(src []byte, path string) ([]graph.Node, []graph.Edge, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.language); err != nil {
		return nil, nil, &ParseError{Path: path, Reason: err.Error()}
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, nil, &ParseError{Path: path, Reason: "parse failed"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil, &ParseError{Path: path, Reason: "syntax error"}
	}

	f := &pyFile{}
	scanPyBlock(root, src, "", f)
	nodes, edges := emitPython(f, path)
	return nodes, edges, nil
}

type pyFile struct {
	Imports   []string
	Classes   []pyClass
	Functions []pyFunc
}

type pyClass struct {
	FQN        string
	Name       string
	Line       int
	Decorators []graph.Annotation
	Bases      []string
	Fields     map[string]string
	Methods    []pyFunc
}

type pyFunc struct {
	Name       string
	Line       int
	Decorators []graph.Annotation
	Params     []graph.Param
	Returns    string
	Calls      []pyCall
}

type pyCall struct {
	Callee    string
	Qualifier string
}

// scanPyBlock walks one statement block. prefix is the dotted chain of
// enclosing class names, empty at module level.
func scanPyBlock(block *sitter.Node, src []byte, prefix string, f *pyFile) {
	for i := 0; i < int(block.ChildCount()); i++ {
		stmt := block.Child(uint(i))
		switch stmt.Kind() {
		case "import_statement":
			f.Imports = append(f.Imports, pyImportNames(stmt, src)...)
		case "import_from_statement":
			f.Imports = append(f.Imports, pyImportFromNames(stmt, src)...)
		case "class_definition":
			scanPyClass(stmt, src, prefix, nil, f)
		case "function_definition":
			if prefix == "" {
				f.Functions = append(f.Functions, scanPyFunc(stmt, src, nil))
			}
		case "decorated_definition":
			decorators := scanPyDecorators(stmt, src)
			def := stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Kind() {
			case "class_definition":
				scanPyClass(def, src, prefix, decorators, f)
			case "function_definition":
				if prefix == "" {
					f.Functions = append(f.Functions, scanPyFunc(def, src, decorators))
				}
			}
		}
	}
}

func scanPyClass(node *sitter.Node, src []byte, prefix string, decorators []graph.Annotation, f *pyFile) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := extractNodeText(nameNode, src)
	fqn := name
	if prefix != "" {
		fqn = prefix + "." + name
	}

	cls := pyClass{
		FQN:        fqn,
		Name:       name,
		Line:       int(node.StartPosition().Row) + 1,
		Decorators: decorators,
		Fields:     map[string]string{},
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.ChildCount()); i++ {
			arg := supers.Child(uint(i))
			switch arg.Kind() {
			case "identifier", "attribute":
				cls.Bases = append(cls.Bases, extractNodeText(arg, src))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		f.Classes = append(f.Classes, cls)
		return
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		stmt := body.Child(uint(i))
		switch stmt.Kind() {
		case "function_definition":
			cls.Methods = append(cls.Methods, scanPyFunc(stmt, src, nil))
		case "decorated_definition":
			decos := scanPyDecorators(stmt, src)
			def := stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Kind() {
			case "function_definition":
				cls.Methods = append(cls.Methods, scanPyFunc(def, src, decos))
			case "class_definition":
				scanPyClass(def, src, fqn, decos, f)
			}
		case "class_definition":
			scanPyClass(stmt, src, fqn, nil, f)
		case "expression_statement":
			scanPyClassField(stmt, src, cls.Fields)
		}
	}

	f.Classes = append(f.Classes, cls)
}

// scanPyClassField records class-level attribute declarations. Only annotated
// attributes carry a type; bare assignments are recorded with an empty one.
func scanPyClassField(stmt *sitter.Node, src []byte, fields map[string]string) {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		assign := stmt.Child(uint(i))
		if assign.Kind() != "assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "identifier" {
			continue
		}
		ftype := ""
		if t := assign.ChildByFieldName("type"); t != nil {
			ftype = extractNodeText(t, src)
		}
		fields[extractNodeText(left, src)] = ftype
	}
}

func scanPyFunc(node *sitter.Node, src []byte, decorators []graph.Annotation) pyFunc {
	fn := pyFunc{
		Line:       int(node.StartPosition().Row) + 1,
		Decorators: decorators,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = extractNodeText(name, src)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = extractNodeText(ret, src)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			pn := params.Child(uint(i))
			if param, ok := scanPyParam(pn, src); ok {
				fn.Params = append(fn.Params, param)
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		walkTree(body, func(n *sitter.Node) bool {
			if n.Kind() != "call" {
				return true
			}
			fnNode := n.ChildByFieldName("function")
			if fnNode == nil {
				return true
			}
			switch fnNode.Kind() {
			case "identifier":
				fn.Calls = append(fn.Calls, pyCall{Callee: extractNodeText(fnNode, src)})
			case "attribute":
				callee := ""
				if attr := fnNode.ChildByFieldName("attribute"); attr != nil {
					callee = extractNodeText(attr, src)
				}
				qual := ""
				if obj := fnNode.ChildByFieldName("object"); obj != nil {
					qual = extractNodeText(obj, src)
				}
				if callee != "" {
					fn.Calls = append(fn.Calls, pyCall{Callee: callee, Qualifier: qual})
				}
			}
			return true
		})
	}
	return fn
}

func scanPyParam(node *sitter.Node, src []byte) (graph.Param, bool) {
	switch node.Kind() {
	case "identifier":
		return graph.Param{Name: extractNodeText(node, src)}, true
	case "typed_parameter", "typed_default_parameter":
		p := graph.Param{}
		if name := node.ChildByFieldName("name"); name != nil {
			p.Name = extractNodeText(name, src)
		} else if id := findChildByType(node, "identifier"); id != nil {
			p.Name = extractNodeText(id, src)
		}
		if t := node.ChildByFieldName("type"); t != nil {
			p.Type = extractNodeText(t, src)
		}
		return p, true
	case "default_parameter":
		p := graph.Param{}
		if name := node.ChildByFieldName("name"); name != nil {
			p.Name = extractNodeText(name, src)
		}
		return p, p.Name != ""
	case "list_splat_parameter", "dictionary_splat_parameter":
		if id := findChildByType(node, "identifier"); id != nil {
			return graph.Param{Name: extractNodeText(id, src)}, true
		}
		return graph.Param{}, false
	default:
		return graph.Param{}, false
	}
}

// scanPyDecorators reads the decorator list off a decorated_definition,
// normalizing each into the same annotation shape the Java front end emits.
func scanPyDecorators(node *sitter.Node, src []byte) []graph.Annotation {
	var annos []graph.Annotation
	for _, deco := range findChildrenByType(node, "decorator") {
		var expr *sitter.Node
		for i := 0; i < int(deco.ChildCount()); i++ {
			ch := deco.Child(uint(i))
			if ch.Kind() != "@" {
				expr = ch
				break
			}
		}
		if expr == nil {
			continue
		}

		name := ""
		var args map[string]graph.AnnotationArg
		switch expr.Kind() {
		case "call":
			if fn := expr.ChildByFieldName("function"); fn != nil {
				name = extractNodeText(fn, src)
			}
			if argList := expr.ChildByFieldName("arguments"); argList != nil {
				args = scanPyDecoratorArgs(argList, src)
			}
		default:
			name = extractNodeText(expr, src)
		}
		if name == "" {
			continue
		}

		full := "@" + name
		annos = append(annos, graph.Annotation{
			Name: full,
			Full: renderAnnotation(full, args),
			Args: args,
		})
	}
	return annos
}

func scanPyDecoratorArgs(argList *sitter.Node, src []byte) map[string]graph.AnnotationArg {
	args := map[string]graph.AnnotationArg{}
	var positional []string
	for i := 0; i < int(argList.ChildCount()); i++ {
		arg := argList.Child(uint(i))
		switch arg.Kind() {
		case "(", ")", ",":
			continue
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name != nil && value != nil {
				args[extractNodeText(name, src)] = newArg(pyArgValues(value, src))
			}
		default:
			positional = append(positional, pyArgValues(arg, src)...)
		}
	}
	if len(positional) > 0 {
		args["value"] = newArg(positional)
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

func pyArgValues(node *sitter.Node, src []byte) []string {
	switch node.Kind() {
	case "string":
		return []string{stripQuotes(extractNodeText(node, src))}
	case "list", "tuple":
		var vals []string
		for i := 0; i < int(node.ChildCount()); i++ {
			ch := node.Child(uint(i))
			switch ch.Kind() {
			case "[", "]", "(", ")", ",":
				continue
			}
			vals = append(vals, pyArgValues(ch, src)...)
		}
		return dedup(vals)
	default:
		return []string{extractNodeText(node, src)}
	}
}

func pyImportNames(stmt *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(stmt.ChildCount()); i++ {
		ch := stmt.Child(uint(i))
		switch ch.Kind() {
		case "dotted_name":
			out = append(out, extractNodeText(ch, src))
		case "aliased_import":
			if name := ch.ChildByFieldName("name"); name != nil {
				out = append(out, extractNodeText(name, src))
			}
		}
	}
	return out
}

func pyImportFromNames(stmt *sitter.Node, src []byte) []string {
	module := ""
	if m := stmt.ChildByFieldName("module_name"); m != nil {
		module = extractNodeText(m, src)
	}
	var out []string
	for i := 0; i < int(stmt.ChildCount()); i++ {
		ch := stmt.Child(uint(i))
		name := ""
		switch ch.Kind() {
		case "dotted_name":
			name = extractNodeText(ch, src)
		case "aliased_import":
			if n := ch.ChildByFieldName("name"); n != nil {
				name = extractNodeText(n, src)
			}
		case "wildcard_import":
			name = "*"
		}
		if name == "" || name == module {
			continue
		}
		if module != "" {
			name = module + "." + name
		}
		out = append(out, name)
	}
	if len(out) == 0 && module != "" {
		out = append(out, module)
	}
	return out
}

// emitPython lowers the scanned module into graph nodes and edges.
func emitPython(f *pyFile, path string) ([]graph.Node, []graph.Edge) {
	var nodes []graph.Node
	var edges []graph.Edge

	fileID := FileID(path)
	nodes = append(nodes, graph.Node{
		ID:   fileID,
		Kind: graph.NodeFile,
		Name: filepath.Base(path),
		FQN:  path,
		File: path,
	})

	for _, imp := range dedup(f.Imports) {
		edges = append(edges, graph.Edge{Src: fileID, Dst: "import::" + imp, Type: graph.EdgeImports})
	}

	for _, cls := range f.Classes {
		clsID := TypeID(LangPython, cls.FQN)
		nodes = append(nodes, graph.Node{
			ID:          clsID,
			Kind:        graph.NodeClass,
			Name:        cls.Name,
			FQN:         cls.FQN,
			File:        path,
			Line:        cls.Line,
			Annotations: annotationNames(cls.Decorators),
			Extras: &graph.Extras{
				Fields:            cls.Fields,
				AnnotationDetails: cls.Decorators,
			},
		})
		edges = append(edges, graph.Edge{Src: fileID, Dst: clsID, Type: graph.EdgeContains})

		for _, base := range cls.Bases {
			baseID := TypeID(LangPython, base)
			nodes = append(nodes, graph.Node{ID: baseID, Kind: graph.NodeClass, Name: simpleName(base), FQN: base})
			edges = append(edges, graph.Edge{Src: clsID, Dst: baseID, Type: graph.EdgeExtends})
		}
		for _, anno := range cls.Decorators {
			edges = append(edges, graph.Edge{Src: clsID, Dst: "anno::" + anno.Name, Type: graph.EdgeAnnotatedBy})
		}

		for _, m := range cls.Methods {
			mNodes, mEdges := emitPyFunc(m, cls.FQN+"."+m.Name, clsID, cls.FQN, path, f.Imports, graph.NodeMethod)
			nodes = append(nodes, mNodes...)
			edges = append(edges, mEdges...)
		}
	}

	for _, fn := range f.Functions {
		fNodes, fEdges := emitPyFunc(fn, fn.Name, fileID, "", path, f.Imports, graph.NodeFunction)
		nodes = append(nodes, fNodes...)
		edges = append(edges, fEdges...)
	}

	return nodes, edges
}

func emitPyFunc(fn pyFunc, baseFQN, ownerID, ownerFQN, path string, imports []string, kind graph.NodeKind) ([]graph.Node, []graph.Edge) {
	fqn := baseFQN + paramSignature(fn.Params)
	id := TypeID(LangPython, fqn)

	nodes := []graph.Node{{
		ID:          id,
		Kind:        kind,
		Name:        fn.Name,
		FQN:         fqn,
		File:        path,
		Line:        fn.Line,
		Annotations: annotationNames(fn.Decorators),
		Params:      fn.Params,
		Returns:     fn.Returns,
		Extras: &graph.Extras{
			AnnotationDetails: fn.Decorators,
		},
	}}

	edges := []graph.Edge{{Src: ownerID, Dst: id, Type: graph.EdgeContains}}
	for _, anno := range fn.Decorators {
		edges = append(edges, graph.Edge{Src: id, Dst: "anno::" + anno.Name, Type: graph.EdgeAnnotatedBy})
	}
	for _, call := range fn.Calls {
		guess := call.Callee
		if ownerFQN != "" {
			guess = ownerFQN + "." + call.Callee
		}
		edges = append(edges, graph.Edge{
			Src:  id,
			Dst:  TypeID(LangPython, guess),
			Type: graph.EdgeCalls,
			Call: &graph.CallMeta{
				Qualifier: call.Qualifier,
				Imports:   imports,
			},
		})
	}
	return nodes, edges
}
