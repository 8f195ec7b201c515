package graph

// MappingInfo is the raw HTTP mapping extracted from one annotation set
// (class-level or method-level), before effective values are derived.
type MappingInfo struct {
	Methods  []string `json:"methods,omitempty"`
	Paths    []string `json:"paths,omitempty"`
	Consumes []string `json:"consumes,omitempty"`
	Produces []string `json:"produces,omitempty"`
	Params   []string `json:"params,omitempty"`
	Headers  []string `json:"headers,omitempty"`
	Name     string   `json:"name,omitempty"`
}

// Empty reports whether no mapping information was found.
func (m *MappingInfo) Empty() bool {
	if m == nil {
		return true
	}
	return len(m.Methods) == 0 && len(m.Paths) == 0 && len(m.Consumes) == 0 &&
		len(m.Produces) == 0 && len(m.Params) == 0 && len(m.Headers) == 0 && m.Name == ""
}

// ParamBinding classifies one method parameter into its request binding
// source. Required is nil when the annotation argument is absent or not a
// recognizable boolean literal.
type ParamBinding struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"` // bound name: annotation argument, else the parameter name
	Type     string `json:"type,omitempty"`
	Source   string `json:"source"` // path, query, header, body, cookie, part, unknown
	Required *bool  `json:"required,omitempty"`
	Default  string `json:"default,omitempty"`
}

// Binding sources assigned by the front ends.
const (
	BindPath    = "path"
	BindQuery   = "query"
	BindHeader  = "header"
	BindBody    = "body"
	BindCookie  = "cookie"
	BindPart    = "part"
	BindUnknown = "unknown"
)

// CORSPolicy is the normalized @CrossOrigin record.
type CORSPolicy struct {
	Origins          []string `json:"origins,omitempty"`
	AllowedHeaders   []string `json:"allowedHeaders,omitempty"`
	ExposedHeaders   []string `json:"exposedHeaders,omitempty"`
	Methods          []string `json:"methods,omitempty"`
	MaxAge           string   `json:"maxAge,omitempty"`
	AllowCredentials []string `json:"allowCredentials,omitempty"`
}

// Empty reports whether no CORS attribute was set.
func (c *CORSPolicy) Empty() bool {
	if c == nil {
		return true
	}
	return len(c.Origins) == 0 && len(c.AllowedHeaders) == 0 && len(c.ExposedHeaders) == 0 &&
		len(c.Methods) == 0 && c.MaxAge == "" && len(c.AllowCredentials) == 0
}

// RouteInfo is the derived HTTP route record attached to a method node.
// Methods, Consumes, Produces and Name hold effective values (method first,
// class fallback); Params and Headers are merged; CombinedPaths is the
// cartesian combination of class base paths and method paths.
type RouteInfo struct {
	Methods       []string `json:"methods,omitempty"`
	Paths         []string `json:"paths,omitempty"`      // method-level raw paths
	BasePaths     []string `json:"base_paths,omitempty"` // class-level raw paths
	CombinedPaths []string `json:"combined_paths,omitempty"`
	Consumes      []string `json:"consumes,omitempty"`
	Produces      []string `json:"produces,omitempty"`
	Params        []string `json:"params,omitempty"`
	Headers       []string `json:"headers,omitempty"`
	Name          string   `json:"name,omitempty"`

	RawClass  *MappingInfo `json:"raw_class,omitempty"`
	RawMethod *MappingInfo `json:"raw_method,omitempty"`

	ResponseStatus string      `json:"response_status,omitempty"`
	CORS           *CORSPolicy `json:"cors,omitempty"`

	ParamSources []ParamBinding `json:"param_sources,omitempty"`
	PathVars     []string       `json:"path_variables,omitempty"`
	QueryParams  []string       `json:"query_params,omitempty"`
	HeaderParams []string       `json:"header_params,omitempty"`
	BodyParams   []string       `json:"body_params,omitempty"`
	CookieParams []string       `json:"cookie_params,omitempty"`

	// PathVarsInCombined lists path-bound parameter names that actually
	// appear as {name} placeholders in CombinedPaths.
	PathVarsInCombined []string `json:"path_variables_in_combined,omitempty"`
}

// Empty reports whether the record carries no mapping at all.
func (r *RouteInfo) Empty() bool {
	if r == nil {
		return true
	}
	return len(r.Methods) == 0 && len(r.Paths) == 0 && len(r.BasePaths) == 0 && len(r.CombinedPaths) == 0
}
