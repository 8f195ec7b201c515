package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/graph"
	"codegraph/internal/parsers"
)

// Test Plan for the builder:
// - A mixed Java/Python tree builds into one graph with post-resolution stats
// - A file with a syntax error degrades to a bare file node, the rest still parse
// - Building the same tree twice yields identical exports
// - Ignore globs and .gitignore both prune discovery
// - Language filtering restricts which extensions are discovered
// - A cancelled context aborts the build

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func mixedTree(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"src/com/acme/Base.java": `package com.acme;
public class Base {
    public void run() {}
}
`,
		"src/com/acme/Sub.java": `package com.acme;
public class Sub extends Base {
    public void run() {}
}
`,
		"src/com/acme/Broken.java":      "public class {{{",
		"src/com/acme/Item.java":        "package com.acme;\npublic class Item {}\n",
		"src/com/acme/ItemRepo.java":    "package com.acme;\npublic interface ItemRepo {\n    Item load(long id);\n}\n",
		"src/com/acme/Color.java":       "package com.acme;\npublic enum Color { RED, GREEN }\n",
		"src/com/acme/Tag.java":         "package com.acme;\npublic class Tag {}\n",
		"tools/report.py":               "def report():\n    pass\n",
		"tools/cleanup.py":              "def cleanup():\n    pass\n",
		"tools/models.py":               "class Model:\n    pass\n",
		"README.md":                     "docs, not code\n",
	})
}

func TestBuilder_BuildMixedTree(t *testing.T) {
	t.Parallel()

	b, err := New()
	require.NoError(t, err)

	g, stats, err := b.Build(context.Background(), mixedTree(t))
	require.NoError(t, err)

	assert.Equal(t, 10, stats.FilesDiscovered)
	assert.Equal(t, 9, stats.FilesParsed)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 1, stats.Overrides)
	assert.Equal(t, g.NodeCount(), stats.Nodes)
	assert.Equal(t, g.EdgeCount(), stats.Edges)
	assert.GreaterOrEqual(t, stats.Nodes, stats.FilesDiscovered)

	sub := g.Node("java::com.acme.Sub")
	require.NotNil(t, sub)
	assert.Equal(t, graph.NodeClass, sub.Kind)
	assert.NotNil(t, g.Node("py::report()"))

	// Containment is well-typed: every Contains edge joins a file or type
	// to an existing node.
	for _, e := range g.Edges() {
		if e.Type != graph.EdgeContains {
			continue
		}
		src := g.Node(e.Src)
		require.NotNil(t, src)
		assert.True(t, src.Kind == graph.NodeFile || src.Kind.IsType(), "contains edge from %s", e.Src)
		assert.NotNil(t, g.Node(e.Dst), "contains edge to %s", e.Dst)
	}
}

func TestBuilder_DegradedFileNode(t *testing.T) {
	t.Parallel()

	b, err := New()
	require.NoError(t, err)

	g, _, err := b.Build(context.Background(), mixedTree(t))
	require.NoError(t, err)

	broken := g.Node("file::src/com/acme/Broken.java")
	require.NotNil(t, broken)
	assert.Equal(t, graph.NodeFile, broken.Kind)
	assert.Equal(t, "src/com/acme/Broken.java", broken.FQN)
	require.NotNil(t, broken.Extras)
	assert.NotEmpty(t, broken.Extras.ParseError)
	assert.Empty(t, g.OutEdges(broken.ID))

	// The fqn index covers degraded files like any other node.
	assert.Same(t, broken, g.NodeByFQN("src/com/acme/Broken.java"))
}

func TestBuilder_Deterministic(t *testing.T) {
	t.Parallel()

	root := mixedTree(t)

	b, err := New()
	require.NoError(t, err)

	first, _, err := b.Build(context.Background(), root)
	require.NoError(t, err)
	second, _, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first.Export(), second.Export())
}

func TestBuilder_IgnorePatterns(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"app/Main.java":          "package app;\npublic class Main {}\n",
		"generated/Stub.java":    "package generated;\npublic class Stub {}\n",
		"vendor/lib/helper.py":   "def helper():\n    pass\n",
		"app/cache/cached.py":    "def cached():\n    pass\n",
	})

	b, err := New(WithIgnorePatterns("generated/**", "vendor/**", "**/cache/**"))
	require.NoError(t, err)

	g, stats, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.NotNil(t, g.Node("java::app.Main"))
	assert.Nil(t, g.Node("java::generated.Stub"))
}

func TestBuilder_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	b, err := New(WithIgnorePatterns("[unclosed"))
	require.NoError(t, err)

	_, _, err = b.Build(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestBuilder_GitignoreRespected(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		".gitignore":        "build/\n",
		"app/Main.java":     "package app;\npublic class Main {}\n",
		"build/Gen.java":    "package build;\npublic class Gen {}\n",
	})

	b, err := New()
	require.NoError(t, err)

	_, stats, err := b.Build(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesDiscovered)
}

func TestBuilder_LanguageFilter(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Main.java": "package app;\npublic class Main {}\n",
		"tool.py":   "def tool():\n    pass\n",
	})

	b, err := New(WithLanguages(parsers.LangPython))
	require.NoError(t, err)

	g, stats, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.NotNil(t, g.Node("py::tool()"))
}

func TestBuilder_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := New(WithLanguages("cobol"))
	assert.Error(t, err)
}

func TestBuilder_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Main.java": "package app;\npublic class Main {}\n",
	})

	b, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = b.Build(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_CallResolutionAcrossFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/com/acme/ItemService.java": `package com.acme;
public class ItemService {
    public Item find(long id) { return null; }
}
`,
		"src/com/acme/ItemController.java": `package com.acme;
public class ItemController {
    private ItemService service;
    public Item get(long id) {
        return service.find(id);
    }
}
`,
	})

	b, err := New()
	require.NoError(t, err)

	g, stats, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ResolvedCalls)

	var resolved bool
	for _, e := range g.OutEdges("java::com.acme.ItemController.get(long)") {
		if e.Type == graph.EdgeCalls && e.Call != nil && e.Call.Resolved {
			resolved = true
			assert.Equal(t, "java::com.acme.ItemService.find(long)", e.Dst)
		}
	}
	assert.True(t, resolved)
}
