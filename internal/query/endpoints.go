package query

import (
	"codegraph/internal/graph"
)

// Endpoint is one row of the HTTP endpoint matrix: a handler method joined
// with its derived route metadata.
type Endpoint struct {
	Class          string   `json:"class,omitempty"`
	Method         string   `json:"method"`
	FQN            string   `json:"fqn"`
	File           string   `json:"file,omitempty"`
	Line           int      `json:"line,omitempty"`
	Verbs          []string `json:"verbs,omitempty"`
	Paths          []string `json:"paths,omitempty"`
	Consumes       []string `json:"consumes,omitempty"`
	Produces       []string `json:"produces,omitempty"`
	PathVariables  []string `json:"path_variables,omitempty"`
	QueryParams    []string `json:"query_params,omitempty"`
	HeaderParams   []string `json:"header_params,omitempty"`
	BodyParams     []string `json:"body_params,omitempty"`
	ResponseStatus string   `json:"response_status,omitempty"`
}

// Endpoints lists every method node carrying route metadata with a verb or a
// combined path, in graph insertion order.
func Endpoints(g *graph.CodeGraph) []Endpoint {
	var rows []Endpoint
	for _, n := range g.Nodes() {
		if n.Kind != graph.NodeMethod || n.Extras == nil || n.Extras.HTTP == nil {
			continue
		}
		route := n.Extras.HTTP
		if len(route.Methods) == 0 && len(route.CombinedPaths) == 0 {
			continue
		}

		row := Endpoint{
			Method:         n.Name,
			FQN:            n.FQN,
			File:           n.File,
			Line:           n.Line,
			Verbs:          route.Methods,
			Paths:          route.CombinedPaths,
			Consumes:       route.Consumes,
			Produces:       route.Produces,
			PathVariables:  route.PathVarsInCombined,
			QueryParams:    route.QueryParams,
			HeaderParams:   route.HeaderParams,
			BodyParams:     route.BodyParams,
			ResponseStatus: route.ResponseStatus,
		}
		if owner := containingType(g, n.ID); owner != nil {
			row.Class = owner.FQN
			if row.Class == "" {
				row.Class = owner.Name
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func containingType(g *graph.CodeGraph, id string) *graph.Node {
	for _, e := range g.InEdges(id) {
		if e.Type != graph.EdgeContains {
			continue
		}
		if owner := g.Node(e.Src); owner != nil && owner.Kind.IsType() {
			return owner
		}
	}
	return nil
}
