package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/graph"
)

// Test Plan for route derivation:
// - joinPaths inserts exactly one slash, "/" for the empty+empty case
// - combinePaths is cartesian when both sides are present, pass-through otherwise
// - Shortcut annotations imply their verb; @RequestMapping lists verbs explicitly
// - Method values win, class values are the fallback
// - Parameter bindings classify by annotation, required is tri-state
// - Path variables appearing as {name} in combined paths are reported
// - Methods without any mapping get no route record

func anno(name string, args map[string][]string) graph.Annotation {
	a := graph.Annotation{Name: name}
	if len(args) > 0 {
		a.Args = make(map[string]graph.AnnotationArg, len(args))
		for k, vs := range args {
			a.Args[k] = newArg(vs)
		}
	}
	a.Full = renderAnnotation(name, a.Args)
	return a
}

func TestJoinPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, leaf, want string
	}{
		{"", "", "/"},
		{"", "items", "/items"},
		{"", "/items", "/items"},
		{"/api", "", "/api"},
		{"/api", "/items/{id}", "/api/items/{id}"},
		{"/api/", "/items", "/api/items"},
		{"/api", "items", "/api/items"},
		{"/api/", "items", "/api/items"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, joinPaths(tc.base, tc.leaf), "join(%q, %q)", tc.base, tc.leaf)
	}
}

func TestCombinePaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"/a/x", "/a/y", "/b/x", "/b/y"},
		combinePaths([]string{"/a", "/b"}, []string{"/x", "/y"}))
	assert.Equal(t, []string{"/x"}, combinePaths(nil, []string{"/x"}))
	assert.Equal(t, []string{"/a"}, combinePaths([]string{"/a"}, nil))
	assert.Nil(t, combinePaths(nil, nil))
}

func TestExtractMapping_Shortcut(t *testing.T) {
	t.Parallel()

	m := extractMapping([]graph.Annotation{
		anno("@GetMapping", map[string][]string{"value": {"/items"}}),
	})
	require.NotNil(t, m)
	assert.Equal(t, []string{"GET"}, m.Methods)
	assert.Equal(t, []string{"/items"}, m.Paths)
}

func TestExtractMapping_RequestMappingMethodList(t *testing.T) {
	t.Parallel()

	m := extractMapping([]graph.Annotation{
		anno("@RequestMapping", map[string][]string{
			"path":   {"/admin"},
			"method": {"RequestMethod.GET", "RequestMethod.POST"},
		}),
	})
	require.NotNil(t, m)
	assert.Equal(t, []string{"GET", "POST"}, m.Methods)
	assert.Equal(t, []string{"/admin"}, m.Paths)
}

func TestExtractMapping_NonMappingAnnotationsIgnored(t *testing.T) {
	t.Parallel()

	m := extractMapping([]graph.Annotation{
		anno("@Service", nil),
		anno("@Transactional", nil),
	})
	assert.Nil(t, m)
}

func TestBuildRoute_EffectiveValues(t *testing.T) {
	t.Parallel()

	classMapping := extractMapping([]graph.Annotation{
		anno("@RequestMapping", map[string][]string{
			"value":    {"/api"},
			"produces": {"application/xml"},
		}),
	})
	methodAnnos := []graph.Annotation{
		anno("@GetMapping", map[string][]string{
			"value":    {"/items/{id}"},
			"produces": {"application/json"},
		}),
	}

	route := buildRoute(classMapping, methodAnnos, nil)
	require.NotNil(t, route)
	assert.Equal(t, []string{"GET"}, route.Methods)
	assert.Equal(t, []string{"/api/items/{id}"}, route.CombinedPaths)
	// Method produces wins over the class fallback.
	assert.Equal(t, []string{"application/json"}, route.Produces)
}

func TestBuildRoute_ClassFallback(t *testing.T) {
	t.Parallel()

	classMapping := extractMapping([]graph.Annotation{
		anno("@RequestMapping", map[string][]string{
			"value":    {"/api"},
			"consumes": {"application/json"},
		}),
	})
	methodAnnos := []graph.Annotation{
		anno("@PostMapping", nil),
	}

	route := buildRoute(classMapping, methodAnnos, nil)
	require.NotNil(t, route)
	assert.Equal(t, []string{"POST"}, route.Methods)
	assert.Equal(t, []string{"application/json"}, route.Consumes)
	assert.Equal(t, []string{"/api"}, route.CombinedPaths)
}

func TestBuildRoute_NoMappingNoRoute(t *testing.T) {
	t.Parallel()

	route := buildRoute(nil, []graph.Annotation{anno("@Transactional", nil)},
		[]javaParam{{Name: "x", Type: "int"}})
	assert.Nil(t, route)
}

func TestBuildRoute_ResponseStatusAlone(t *testing.T) {
	t.Parallel()

	route := buildRoute(nil, []graph.Annotation{
		anno("@ResponseStatus", map[string][]string{"value": {"HttpStatus.NOT_FOUND"}}),
	}, nil)
	require.NotNil(t, route)
	assert.Equal(t, "HttpStatus.NOT_FOUND", route.ResponseStatus)
}

func TestClassifyParam_Bindings(t *testing.T) {
	t.Parallel()

	pathVar := classifyParam(0, javaParam{
		Name: "id", Type: "long",
		Annotations: []graph.Annotation{anno("@PathVariable", nil)},
	})
	assert.Equal(t, graph.BindPath, pathVar.Source)
	assert.Equal(t, "id", pathVar.Name)
	assert.Nil(t, pathVar.Required)

	renamed := classifyParam(1, javaParam{
		Name: "q", Type: "String",
		Annotations: []graph.Annotation{anno("@RequestParam", map[string][]string{
			"value":        {"query"},
			"required":     {"false"},
			"defaultValue": {"*"},
		})},
	})
	assert.Equal(t, graph.BindQuery, renamed.Source)
	assert.Equal(t, "query", renamed.Name)
	require.NotNil(t, renamed.Required)
	assert.False(t, *renamed.Required)
	assert.Equal(t, "*", renamed.Default)

	body := classifyParam(2, javaParam{
		Name: "payload", Type: "ItemDto",
		Annotations: []graph.Annotation{anno("@RequestBody", nil)},
	})
	assert.Equal(t, graph.BindBody, body.Source)

	plain := classifyParam(3, javaParam{Name: "misc", Type: "int"})
	assert.Equal(t, graph.BindUnknown, plain.Source)
}

func TestClassifyParam_RequiredCaseInsensitive(t *testing.T) {
	t.Parallel()

	binding := classifyParam(0, javaParam{
		Name: "h",
		Annotations: []graph.Annotation{anno("@RequestHeader", map[string][]string{
			"required": {"TRUE"},
		})},
	})
	require.NotNil(t, binding.Required)
	assert.True(t, *binding.Required)
}

func TestBuildRoute_PathVarsInCombined(t *testing.T) {
	t.Parallel()

	classMapping := extractMapping([]graph.Annotation{
		anno("@RequestMapping", map[string][]string{"value": {"/api"}}),
	})
	methodAnnos := []graph.Annotation{
		anno("@GetMapping", map[string][]string{"value": {"/items/{id}"}}),
	}
	params := []javaParam{
		{Name: "id", Type: "long", Annotations: []graph.Annotation{anno("@PathVariable", nil)}},
		{Name: "verbose", Type: "boolean", Annotations: []graph.Annotation{anno("@RequestParam", nil)}},
	}

	route := buildRoute(classMapping, methodAnnos, params)
	require.NotNil(t, route)
	assert.Equal(t, []string{"id"}, route.PathVars)
	assert.Equal(t, []string{"id"}, route.PathVarsInCombined)
	assert.Equal(t, []string{"verbose"}, route.QueryParams)
}

func TestBuildRoute_PathVarNotInCombined(t *testing.T) {
	t.Parallel()

	methodAnnos := []graph.Annotation{
		anno("@GetMapping", map[string][]string{"value": {"/items"}}),
	}
	params := []javaParam{
		{Name: "id", Annotations: []graph.Annotation{anno("@PathVariable", nil)}},
	}

	route := buildRoute(nil, methodAnnos, params)
	require.NotNil(t, route)
	assert.Equal(t, []string{"id"}, route.PathVars)
	assert.Empty(t, route.PathVarsInCombined)
}
