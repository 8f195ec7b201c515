// Package parsers contains the language front ends. Each front end turns raw
// source text into normalized nodes and edges; it never touches shared state,
// so a failed parse leaves the graph exactly as it was.
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"codegraph/internal/graph"
)

// Language identifiers used in node ID namespaces and configuration.
const (
	LangJava   = "java"
	LangPython = "python"
)

// Java backend names, selected via configuration.
const (
	JavaBackendTreeSitter = "treesitter"
	JavaBackendCST        = "cst"
)

// Parser is one language front end.
type Parser interface {
	// Language returns the language this front end handles.
	Language() string

	// Parse extracts nodes and edges from one source file. It returns a
	// *ParseError when the input cannot be parsed; partial output is never
	// returned alongside an error.
	Parse(src []byte, path string) ([]graph.Node, []graph.Edge, error)
}

// ParseError reports that a single file could not be parsed. The graph
// builder records it on a degraded file node instead of failing the build.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Reason)
}

// Registry maps file extensions to front ends.
type Registry struct {
	byExt map[string]Parser
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	javaBackend string
}

// WithJavaBackend selects which of the two interchangeable Java front ends
// the registry dispatches to: JavaBackendTreeSitter (default) or
// JavaBackendCST.
func WithJavaBackend(backend string) RegistryOption {
	return func(c *registryConfig) {
		c.javaBackend = backend
	}
}

// NewRegistry creates a registry covering the supported languages.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	cfg := registryConfig{javaBackend: JavaBackendTreeSitter}
	for _, opt := range opts {
		opt(&cfg)
	}

	var javaFront Parser
	switch cfg.javaBackend {
	case JavaBackendTreeSitter:
		javaFront = NewJavaParser()
	case JavaBackendCST:
		javaFront = NewJavaCSTParser()
	default:
		return nil, fmt.Errorf("unknown java backend: %q", cfg.javaBackend)
	}

	return &Registry{
		byExt: map[string]Parser{
			".java": javaFront,
			".py":   NewPythonParser(),
		},
	}, nil
}

// ForPath returns the front end for a file path, or nil when the extension
// is not handled.
func (r *Registry) ForPath(path string) Parser {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Languages returns the languages the registry dispatches to.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.byExt {
		if !seen[p.Language()] {
			seen[p.Language()] = true
			out = append(out, p.Language())
		}
	}
	return out
}

// FileID returns the node identifier for a source file.
func FileID(path string) string {
	return "file::" + path
}

// TypeID returns the node identifier for a type or member fqn in a language
// namespace.
func TypeID(lang, fqn string) string {
	switch lang {
	case LangPython:
		return "py::" + fqn
	default:
		return lang + "::" + fqn
	}
}
