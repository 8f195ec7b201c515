package query

import (
	"strings"

	"codegraph/internal/graph"
)

// Annotation vocabularies the canned slices seed on. Names are compared
// against node annotation names, which include the leading @.
var (
	controllerAnnotations = []string{
		"@Controller",
		"@RestController",
		"@RequestMapping",
		"@GetMapping",
		"@PostMapping",
		"@PutMapping",
		"@DeleteMapping",
		"@PatchMapping",
	}

	listenerAnnotations = []string{
		"@KafkaListener",
		"@RabbitListener",
		"@JmsListener",
		"@SqsListener",
		"@EventListener",
		"@TransactionalEventListener",
	}

	listenerInterfaceSuffix = "ApplicationListener"
)

// ControllerSlice returns the subgraph around HTTP controllers: every node
// carrying a controller-marker or mapping annotation, expanded k hops.
func ControllerSlice(g *graph.CodeGraph, k int) *graph.CodeGraph {
	seeds := seedsByAnnotation(g, controllerAnnotations, "")
	return expand(g, seeds, k)
}

// ListenerSlice returns the subgraph around message and event listeners:
// nodes carrying a listener annotation, plus classes implementing a listener
// interface, expanded k hops.
func ListenerSlice(g *graph.CodeGraph, k int) *graph.CodeGraph {
	seeds := seedsByAnnotation(g, listenerAnnotations, listenerInterfaceSuffix)
	return expand(g, seeds, k)
}

func expand(g *graph.CodeGraph, seeds []string, k int) *graph.CodeGraph {
	if k > 0 {
		return g.Neighbors(seeds, k)
	}
	return g.Subgraph(seeds)
}

func seedsByAnnotation(g *graph.CodeGraph, annotations []string, implementsSuffix string) []string {
	wanted := make(map[string]bool, len(annotations))
	for _, a := range annotations {
		wanted[a] = true
	}

	var seeds []string
	for _, n := range g.Nodes() {
		if intersectsExact(n.Annotations, wanted) {
			seeds = append(seeds, n.ID)
			continue
		}
		if implementsSuffix != "" && implementsTarget(g, n.ID, implementsSuffix) {
			seeds = append(seeds, n.ID)
		}
	}
	return seeds
}

func implementsTarget(g *graph.CodeGraph, id, suffix string) bool {
	for _, e := range g.OutEdges(id) {
		if e.Type != graph.EdgeImplements {
			continue
		}
		target := g.Node(e.Dst)
		if target == nil {
			continue
		}
		// Generic listener interfaces keep their type arguments in the
		// recorded name, so match on the base name.
		name := target.Name
		if i := strings.Index(name, "<"); i >= 0 {
			name = name[:i]
		}
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
