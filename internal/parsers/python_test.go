package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/graph"
)

// Test Plan for the Python front end:
// - Classes, methods, and top-level functions land in the graph
// - Method fqns qualify by enclosing classes and carry the arity signature
// - Decorators become annotation records with arguments
// - Bases become Extends stubs, imports become Imports edges
// - Call sites carry their attribute qualifier
// - Syntax errors yield a ParseError

const pythonSource = `import json
from acme.store import ItemStore

class BaseHandler:
    def handle(self, event):
        pass

class ItemHandler(BaseHandler):
    store: ItemStore

    @route("/items", methods=["GET", "POST"])
    def list_items(self, limit=10):
        data = self.store.fetch(limit)
        return json.dumps(data)

def main():
    handler = ItemHandler()
    handler.list_items()
`

func pyNodesByID(t *testing.T, src string) (map[string]graph.Node, []graph.Edge) {
	t.Helper()
	nodes, edges, err := NewPythonParser().Parse([]byte(src), "svc/items.py")
	require.NoError(t, err)
	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return byID, edges
}

func TestPythonParser_ClassesAndMethods(t *testing.T) {
	t.Parallel()

	byID, edges := pyNodesByID(t, pythonSource)

	file, ok := byID["file::svc/items.py"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeFile, file.Kind)
	// File nodes use the path as their fqn, same as the Java front end.
	assert.Equal(t, "svc/items.py", file.FQN)

	base, ok := byID["py::BaseHandler"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeClass, base.Kind)

	handler, ok := byID["py::ItemHandler"]
	require.True(t, ok)
	require.NotNil(t, handler.Extras)
	assert.Equal(t, map[string]string{"store": "ItemStore"}, handler.Extras.Fields)

	list, ok := byID["py::ItemHandler.list_items(var,var)"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeMethod, list.Kind)
	assert.Equal(t, []string{"@route"}, list.Annotations)
	require.Len(t, list.Params, 2)
	assert.Equal(t, "self", list.Params[0].Name)
	assert.Equal(t, "limit", list.Params[1].Name)

	mainFn, ok := byID["py::main()"]
	require.True(t, ok)
	assert.Equal(t, graph.NodeFunction, mainFn.Kind)

	assert.True(t, edgeExists(edges, "py::ItemHandler", "py::BaseHandler", graph.EdgeExtends))
	assert.True(t, edgeExists(edges, "file::svc/items.py", "py::ItemHandler", graph.EdgeContains))
	assert.True(t, edgeExists(edges, "file::svc/items.py", "py::main()", graph.EdgeContains))
	assert.True(t, edgeExists(edges, "file::svc/items.py", "import::json", graph.EdgeImports))
	assert.True(t, edgeExists(edges, "file::svc/items.py", "import::acme.store.ItemStore", graph.EdgeImports))
}

func TestPythonParser_DecoratorArgs(t *testing.T) {
	t.Parallel()

	byID, _ := pyNodesByID(t, pythonSource)

	list := byID["py::ItemHandler.list_items(var,var)"]
	require.NotNil(t, list.Extras)
	require.Len(t, list.Extras.AnnotationDetails, 1)

	deco := list.Extras.AnnotationDetails[0]
	assert.Equal(t, "@route", deco.Name)
	assert.Equal(t, "/items", deco.Args["value"].Value)
	assert.Equal(t, []string{"GET", "POST"}, deco.Args["methods"].Values)
}

func TestPythonParser_CallQualifiers(t *testing.T) {
	t.Parallel()

	_, edges := pyNodesByID(t, pythonSource)

	var calls []graph.Edge
	for _, e := range edges {
		if e.Type == graph.EdgeCalls {
			calls = append(calls, e)
		}
	}
	require.NotEmpty(t, calls)

	var fetch, dumps, listCall *graph.Edge
	for i := range calls {
		switch calls[i].Dst {
		case "py::ItemHandler.fetch":
			fetch = &calls[i]
		case "py::ItemHandler.dumps":
			dumps = &calls[i]
		case "py::list_items":
			listCall = &calls[i]
		}
	}

	require.NotNil(t, fetch)
	assert.Equal(t, "self.store", fetch.Call.Qualifier)
	require.NotNil(t, dumps)
	assert.Equal(t, "json", dumps.Call.Qualifier)
	// Top-level function call sites are guessed without a class prefix.
	require.NotNil(t, listCall)
	assert.Equal(t, "handler", listCall.Call.Qualifier)
}

func TestPythonParser_NestedClasses(t *testing.T) {
	t.Parallel()

	src := `class Outer:
    class Inner:
        def ping(self):
            pass
`
	byID, _ := pyNodesByID(t, src)

	_, ok := byID["py::Outer"]
	assert.True(t, ok)
	_, ok = byID["py::Outer.Inner"]
	assert.True(t, ok)
	_, ok = byID["py::Outer.Inner.ping(var)"]
	assert.True(t, ok)
}

func TestPythonParser_TypedParams(t *testing.T) {
	t.Parallel()

	src := `def add(a: int, b: int) -> int:
    return a + b
`
	byID, _ := pyNodesByID(t, src)

	fn, ok := byID["py::add(int,int)"]
	require.True(t, ok)
	assert.Equal(t, "int", fn.Returns)
}

func TestPythonParser_SyntaxError(t *testing.T) {
	t.Parallel()

	_, _, err := NewPythonParser().Parse([]byte("def broken(:\n"), "bad.py")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.py", perr.Path)
}
