package parsers

import (
	"path/filepath"
	"strings"

	"codegraph/internal/graph"
)

// The two Java backends scan different syntax trees into this neutral form;
// emitJava then produces identical node/edge structure for both, which is
// what makes them interchangeable at the builder boundary.

type javaFile struct {
	Package string
	Imports []string
	Types   []javaType
}

type javaType struct {
	Kind        graph.NodeKind // class, interface, enum
	Name        string
	Line        int
	Modifiers   []string
	Annotations []graph.Annotation
	Extends     []string          // supertype names as written
	Implements  []string          // interface names as written
	Fields      map[string]string // field name -> declared type
	Methods     []javaMethod
}

type javaMethod struct {
	Name        string
	Line        int
	Modifiers   []string
	Annotations []graph.Annotation
	Params      []javaParam
	Returns     string
	Calls       []javaCall
}

type javaParam struct {
	Name        string
	Type        string
	Annotations []graph.Annotation
}

type javaCall struct {
	Callee    string
	Qualifier string
}

// qualify prefixes a type name with the declaring package unless it is
// already qualified.
func (f *javaFile) qualify(name string) string {
	if strings.Contains(name, ".") || f.Package == "" {
		return name
	}
	return f.Package + "." + name
}

// paramSignature renders the parenthesized parameter-type signature that
// keeps overloads distinct: "(int,String)". Untyped parameters render as var.
func paramSignature(params []graph.Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		if p.Type != "" {
			types[i] = p.Type
		} else {
			types[i] = "var"
		}
	}
	return "(" + strings.Join(types, ",") + ")"
}

// emitJava turns the neutral form into normalized nodes and edges.
func emitJava(f *javaFile, path string) ([]graph.Node, []graph.Edge) {
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

	for _, td := range f.Types {
		typeFQN := f.qualify(td.Name)
		typeID := TypeID(LangJava, typeFQN)
		classMapping := extractMapping(td.Annotations)

		extras := &graph.Extras{
			Fields:            td.Fields,
			AnnotationDetails: td.Annotations,
		}
		if classMapping != nil {
			extras.HTTP = &graph.RouteInfo{
				Methods:  classMapping.Methods,
				Paths:    classMapping.Paths,
				Consumes: classMapping.Consumes,
				Produces: classMapping.Produces,
				Params:   classMapping.Params,
				Headers:  classMapping.Headers,
				Name:     classMapping.Name,
			}
		}

		nodes = append(nodes, graph.Node{
			ID:          typeID,
			Kind:        td.Kind,
			Name:        td.Name,
			FQN:         typeFQN,
			File:        path,
			Line:        td.Line,
			Modifiers:   td.Modifiers,
			Annotations: annotationNames(td.Annotations),
			Extras:      extras,
		})
		edges = append(edges, graph.Edge{Src: fileID, Dst: typeID, Type: graph.EdgeContains})

		// Supertype references become stub nodes under the same identifier
		// scheme, so the later full parse merges into them.
		for _, super := range td.Extends {
			superFQN := f.qualify(super)
			superID := TypeID(LangJava, superFQN)
			nodes = append(nodes, graph.Node{
				ID:   superID,
				Kind: graph.NodeClass,
				Name: simpleName(superFQN),
				FQN:  superFQN,
			})
			edges = append(edges, graph.Edge{Src: typeID, Dst: superID, Type: graph.EdgeExtends})
		}
		for _, iface := range td.Implements {
			ifaceFQN := f.qualify(iface)
			ifaceID := TypeID(LangJava, ifaceFQN)
			nodes = append(nodes, graph.Node{
				ID:   ifaceID,
				Kind: graph.NodeInterface,
				Name: simpleName(ifaceFQN),
				FQN:  ifaceFQN,
			})
			edges = append(edges, graph.Edge{Src: typeID, Dst: ifaceID, Type: graph.EdgeImplements})
		}

		for _, m := range td.Methods {
			params := make([]graph.Param, len(m.Params))
			for i, p := range m.Params {
				params[i] = graph.Param{Name: p.Name, Type: p.Type}
			}

			methodFQN := typeFQN + "." + m.Name + paramSignature(params)
			methodID := TypeID(LangJava, methodFQN)

			nodes = append(nodes, graph.Node{
				ID:          methodID,
				Kind:        graph.NodeMethod,
				Name:        m.Name,
				FQN:         methodFQN,
				File:        path,
				Line:        m.Line,
				Modifiers:   m.Modifiers,
				Annotations: annotationNames(m.Annotations),
				Params:      params,
				Returns:     m.Returns,
				Extras: &graph.Extras{
					AnnotationDetails: m.Annotations,
					HTTP:              buildRoute(classMapping, m.Annotations, m.Params),
				},
			})
			edges = append(edges, graph.Edge{Src: typeID, Dst: methodID, Type: graph.EdgeContains})
			for _, anno := range m.Annotations {
				edges = append(edges, graph.Edge{Src: methodID, Dst: "anno::" + anno.Name, Type: graph.EdgeAnnotatedBy})
			}

			// Best-effort call edges: the target is guessed against the
			// enclosing type and corrected by the resolution pass.
			for _, c := range m.Calls {
				guess := typeFQN + "." + c.Callee
				edges = append(edges, graph.Edge{
					Src:  methodID,
					Dst:  TypeID(LangJava, guess),
					Type: graph.EdgeCalls,
					Call: &graph.CallMeta{
						Qualifier: c.Qualifier,
						Package:   f.Package,
						Imports:   f.Imports,
					},
				})
			}
		}

		for _, anno := range td.Annotations {
			edges = append(edges, graph.Edge{Src: typeID, Dst: "anno::" + anno.Name, Type: graph.EdgeAnnotatedBy})
		}
	}

	for _, imp := range f.Imports {
		edges = append(edges, graph.Edge{Src: fileID, Dst: "import::" + imp, Type: graph.EdgeImports})
	}

	return nodes, edges
}

func simpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}
