package model

// ParamLocation says where a parameter value is taken from at request time
type ParamLocation string

const (
	LocationPath   ParamLocation = "path"
	LocationQuery  ParamLocation = "query"
	LocationBody   ParamLocation = "body"
	LocationHeader ParamLocation = "header"
)

// DefaultStatusCode is used when a route declares no explicit status code
const DefaultStatusCode = 200

// EndpointParameter represents a parameter of an API endpoint
type EndpointParameter struct {
	// Parameter name as declared in the handler signature
	Name string `json:"name"`

	// Where the value comes from (path, query, body, header)
	Location ParamLocation `json:"param_type"`

	// Type text captured from the annotation ("string" when absent)
	DeclaredType string `json:"data_type"`

	// Required is false exactly when DefaultValue is set
	Required bool `json:"required"`

	// String form of the default expression
	DefaultValue *string `json:"default"`

	// Free-form description (never filled by the extractors)
	Description *string `json:"description"`
}

// EndpointInfo represents one HTTP endpoint discovered in the project
type EndpointInfo struct {
	// URL pattern, framework placeholders kept verbatim (e.g. "/items/{id}")
	Path string `json:"path"`

	// Uppercase HTTP verb
	Method string `json:"method"`

	// Function or method implementing the route
	HandlerName string `json:"function_name"`

	// First line / remaining lines of the handler documentation
	Summary     *string `json:"summary"`
	Description *string `json:"description"`

	// Parameters in declaration order
	Parameters []EndpointParameter `json:"parameters"`

	// Structured payload type names
	RequestModel  *string `json:"request_model"`
	ResponseModel *string `json:"response_model"`

	// Category labels in declaration order
	Tags []string `json:"tags"`

	StatusCode int `json:"status_code"`

	// Source location, relative to the project root
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
}

// NewEndpointInfo creates an endpoint with empty (non-nil) collections and the default status
func NewEndpointInfo(method, path, handler string) EndpointInfo {
	return EndpointInfo{
		Path:        path,
		Method:      method,
		HandlerName: handler,
		Parameters:  make([]EndpointParameter, 0),
		Tags:        make([]string, 0),
		StatusCode:  DefaultStatusCode,
	}
}

// NewParameter creates a parameter, deriving Required from the presence of a default
func NewParameter(name string, loc ParamLocation, declaredType string, defaultValue *string) EndpointParameter {
	if declaredType == "" {
		declaredType = "string"
	}
	return EndpointParameter{
		Name:         name,
		Location:     loc,
		DeclaredType: declaredType,
		Required:     defaultValue == nil,
		DefaultValue: defaultValue,
	}
}

// Key returns "METHOD path", handy for lookups in tests and reports
func (e EndpointInfo) Key() string {
	return e.Method + " " + e.Path
}

// StringPtr returns a pointer to s, or nil for the empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
