package parsers

import (
	"strings"

	"codegraph/internal/graph"
)

// httpVerbByAnnotation maps shortcut mapping annotations to the single verb
// they imply. The registry is fixed: only these names (plus @RequestMapping)
// carry route semantics.
var httpVerbByAnnotation = map[string]string{
	"@GetMapping":    "GET",
	"@PostMapping":   "POST",
	"@PutMapping":    "PUT",
	"@DeleteMapping": "DELETE",
	"@PatchMapping":  "PATCH",
}

const requestMethodPrefix = "RequestMethod."

// joinPaths joins a class base path and a method path with exactly one
// separating slash. Both empty yields the root path.
func joinPaths(base, leaf string) string {
	if base == "" && leaf == "" {
		return "/"
	}
	if base == "" {
		if strings.HasPrefix(leaf, "/") {
			return leaf
		}
		return "/" + leaf
	}
	if leaf == "" {
		return base
	}
	baseSlash := strings.HasSuffix(base, "/")
	leafSlash := strings.HasPrefix(leaf, "/")
	switch {
	case baseSlash && leafSlash:
		return base[:len(base)-1] + leaf
	case !baseSlash && !leafSlash:
		return base + "/" + leaf
	default:
		return base + leaf
	}
}

// combinePaths produces the cartesian combination of class base paths and
// method paths. When only one side is present it passes through unchanged.
func combinePaths(basePaths, methodPaths []string) []string {
	switch {
	case len(basePaths) > 0 && len(methodPaths) > 0:
		out := make([]string, 0, len(basePaths)*len(methodPaths))
		for _, b := range basePaths {
			for _, m := range methodPaths {
				out = append(out, joinPaths(b, m))
			}
		}
		return dedup(out)
	case len(methodPaths) > 0:
		return dedup(methodPaths)
	case len(basePaths) > 0:
		return dedup(basePaths)
	default:
		return nil
	}
}

// extractMapping collects the raw HTTP mapping from one annotation set.
// Shortcut annotations contribute their implied verb; @RequestMapping
// contributes its explicit method list.
func extractMapping(annos []graph.Annotation) *graph.MappingInfo {
	m := &graph.MappingInfo{}
	for _, a := range annos {
		verb, shortcut := httpVerbByAnnotation[a.Name]
		if !shortcut && a.Name != "@RequestMapping" {
			continue
		}

		if shortcut {
			m.Methods = append(m.Methods, verb)
		} else {
			for _, item := range argValues(a, "method") {
				if strings.HasPrefix(item, requestMethodPrefix) {
					m.Methods = append(m.Methods, strings.TrimPrefix(item, requestMethodPrefix))
				}
			}
		}

		m.Paths = append(m.Paths, argValues(a, "value")...)
		m.Paths = append(m.Paths, argValues(a, "path")...)
		m.Consumes = append(m.Consumes, argValues(a, "consumes")...)
		m.Produces = append(m.Produces, argValues(a, "produces")...)
		m.Params = append(m.Params, argValues(a, "params")...)
		m.Headers = append(m.Headers, argValues(a, "headers")...)
		if v := argValue(a, "name"); v != "" {
			m.Name = v
		}
	}

	m.Methods = dedup(m.Methods)
	m.Paths = dedup(m.Paths)
	m.Consumes = dedup(m.Consumes)
	m.Produces = dedup(m.Produces)
	m.Params = dedup(m.Params)
	m.Headers = dedup(m.Headers)
	if m.Empty() {
		return nil
	}
	return m
}

// extractResponseStatus returns the @ResponseStatus value or code argument.
func extractResponseStatus(annos []graph.Annotation) string {
	for _, a := range annos {
		if a.Name == "@ResponseStatus" {
			return firstArgValue(a, "value", "code")
		}
	}
	return ""
}

// extractCORS returns the normalized @CrossOrigin policy, or nil.
func extractCORS(annos []graph.Annotation) *graph.CORSPolicy {
	for _, a := range annos {
		if a.Name != "@CrossOrigin" {
			continue
		}
		c := &graph.CORSPolicy{
			Origins:          corsList(a, "origins"),
			AllowedHeaders:   corsList(a, "allowedHeaders"),
			ExposedHeaders:   corsList(a, "exposedHeaders"),
			Methods:          corsList(a, "methods"),
			MaxAge:           argValue(a, "maxAge"),
			AllowCredentials: corsList(a, "allowCredentials"),
		}
		if c.Empty() {
			return nil
		}
		return c
	}
	return nil
}

func corsList(a graph.Annotation, key string) []string {
	if vs := argValues(a, key); len(vs) > 0 {
		return vs
	}
	if v := argValue(a, key); v != "" {
		return []string{v}
	}
	return nil
}

// bindingAnnotations maps parameter annotations to binding sources.
var bindingAnnotations = map[string]string{
	"@PathVariable":  graph.BindPath,
	"@RequestParam":  graph.BindQuery,
	"@RequestHeader": graph.BindHeader,
	"@RequestBody":   graph.BindBody,
	"@RequestPart":   graph.BindPart,
	"@CookieValue":   graph.BindCookie,
}

// classifyParam derives the binding record of one method parameter from its
// annotations. Every parameter gets exactly one source; unannotated
// parameters stay "unknown".
func classifyParam(index int, p javaParam) graph.ParamBinding {
	binding := graph.ParamBinding{
		Index:  index,
		Name:   p.Name,
		Type:   p.Type,
		Source: graph.BindUnknown,
	}

	for _, a := range p.Annotations {
		source, ok := bindingAnnotations[a.Name]
		if !ok {
			continue
		}
		binding.Source = source
		if source != graph.BindBody {
			if bound := firstArgValue(a, "value", "name"); bound != "" {
				binding.Name = bound
			}
		}
		binding.Required = parseTriBool(argValue(a, "required"))
		if source == graph.BindQuery || source == graph.BindHeader || source == graph.BindCookie {
			binding.Default = argValue(a, "defaultValue")
		}
		break
	}
	return binding
}

// buildRoute derives the route record for a method from the class-level and
// method-level mappings. Effective values default to the method's own and
// fall back to the class's, except paths, which combine cartesian-style.
func buildRoute(classMapping *graph.MappingInfo, methodAnnos []graph.Annotation, params []javaParam) *graph.RouteInfo {
	methodMapping := extractMapping(methodAnnos)
	responseStatus := extractResponseStatus(methodAnnos)
	cors := extractCORS(methodAnnos)
	if classMapping == nil && methodMapping == nil && responseStatus == "" && cors == nil {
		return nil
	}

	route := &graph.RouteInfo{
		RawClass:       classMapping,
		RawMethod:      methodMapping,
		ResponseStatus: responseStatus,
		CORS:           cors,
	}

	var basePaths, classMethods, classConsumes, classProduces, classParams, classHeaders []string
	classname := ""
	if classMapping != nil {
		basePaths = classMapping.Paths
		classMethods = classMapping.Methods
		classConsumes = classMapping.Consumes
		classProduces = classMapping.Produces
		classParams = classMapping.Params
		classHeaders = classMapping.Headers
		classname = classMapping.Name
	}

	var methodPaths, mMethods, mConsumes, mProduces, mParams, mHeaders []string
	mName := ""
	if methodMapping != nil {
		methodPaths = methodMapping.Paths
		mMethods = methodMapping.Methods
		mConsumes = methodMapping.Consumes
		mProduces = methodMapping.Produces
		mParams = methodMapping.Params
		mHeaders = methodMapping.Headers
		mName = methodMapping.Name
	}

	route.Paths = methodPaths
	route.BasePaths = basePaths
	route.CombinedPaths = combinePaths(basePaths, methodPaths)
	route.Methods = fallback(mMethods, classMethods)
	route.Consumes = fallback(mConsumes, classConsumes)
	route.Produces = fallback(mProduces, classProduces)
	route.Params = dedup(append(append([]string{}, classParams...), mParams...))
	route.Headers = dedup(append(append([]string{}, classHeaders...), mHeaders...))
	route.Name = mName
	if route.Name == "" {
		route.Name = classname
	}

	for i, p := range params {
		binding := classifyParam(i, p)
		route.ParamSources = append(route.ParamSources, binding)
		switch binding.Source {
		case graph.BindPath:
			route.PathVars = append(route.PathVars, binding.Name)
		case graph.BindQuery:
			route.QueryParams = append(route.QueryParams, binding.Name)
		case graph.BindHeader:
			route.HeaderParams = append(route.HeaderParams, binding.Name)
		case graph.BindBody:
			route.BodyParams = append(route.BodyParams, p.Name)
		case graph.BindCookie:
			route.CookieParams = append(route.CookieParams, binding.Name)
		}
	}
	route.PathVars = dedup(route.PathVars)
	route.QueryParams = dedup(route.QueryParams)
	route.HeaderParams = dedup(route.HeaderParams)
	route.BodyParams = dedup(route.BodyParams)
	route.CookieParams = dedup(route.CookieParams)

	for _, pv := range route.PathVars {
		placeholder := "{" + pv + "}"
		for _, cp := range route.CombinedPaths {
			if strings.Contains(cp, placeholder) {
				route.PathVarsInCombined = append(route.PathVarsInCombined, pv)
				break
			}
		}
	}

	return route
}

func fallback(primary, secondary []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return secondary
}
