package linker

import (
	"route-recon/internal/model"
)

// ViewKind classifies a recorded view
type ViewKind string

const (
	ViewKindViewSet  ViewKind = "viewset"
	ViewKindClass    ViewKind = "class_view"
	ViewKindFunction ViewKind = "function_view"
)

// PatternKind classifies a URL declaration
type PatternKind string

const (
	PatternRouter PatternKind = "router_registration"
	PatternPath   PatternKind = "path_declaration"
)

// SerializerInfo is a serializer class found in a serializers module
type SerializerInfo struct {
	Name   string
	Fields []string // Directly assigned / annotated names, declaration order
	File   string
}

// CustomAction is an @action-decorated viewset method
type CustomAction struct {
	Name    string
	Methods []string // As written, e.g. ["get", "post"]
	Detail  bool
	Doc     string
	Line    int
}

// MethodHandler is one HTTP verb served by a class or function view
type MethodHandler struct {
	Method string // Uppercase verb
	Doc    string
	Line   int
}

// ViewInfo is a viewset, class view or function view
type ViewInfo struct {
	Name          string
	Kind          ViewKind
	File          string
	Line          int
	SerializerRef string // serializer_class = Name (viewsets only)
	Doc           string

	StandardActions []string       // viewsets
	CustomActions   []CustomAction // viewsets
	HTTPMethods     []MethodHandler
}

// UrlPattern is one router registration or path() declaration
type UrlPattern struct {
	Kind     PatternKind
	Fragment string // Router prefix or path string
	Target   string // Captured view name
	File     string
	Line     int
}

// ViewPool stores the records gathered by the serializer, view and URL passes of one run
type ViewPool struct {
	// SerializerMap: Name -> SerializerInfo
	SerializerMap map[string]*SerializerInfo

	// ViewMap: Name -> ViewInfo (one name space for every view kind)
	ViewMap map[string]*ViewInfo

	// Patterns in discovery order
	Patterns []UrlPattern

	serializerOrder []string
	viewOrder       []string
}

// NewViewPool creates a new empty view pool
func NewViewPool() *ViewPool {
	return &ViewPool{
		SerializerMap: make(map[string]*SerializerInfo),
		ViewMap:       make(map[string]*ViewInfo),
		Patterns:      make([]UrlPattern, 0),
	}
}

// AddSerializer records a serializer; a later definition of the same name replaces the earlier one
func (pool *ViewPool) AddSerializer(s *SerializerInfo) {
	if _, exists := pool.SerializerMap[s.Name]; !exists {
		pool.serializerOrder = append(pool.serializerOrder, s.Name)
	}
	pool.SerializerMap[s.Name] = s
}

// AddView records a view; a later definition of the same name replaces the earlier one
func (pool *ViewPool) AddView(v *ViewInfo) {
	if _, exists := pool.ViewMap[v.Name]; !exists {
		pool.viewOrder = append(pool.viewOrder, v.Name)
	}
	pool.ViewMap[v.Name] = v
}

// AddPatterns appends URL patterns in the order given
func (pool *ViewPool) AddPatterns(patterns ...UrlPattern) {
	pool.Patterns = append(pool.Patterns, patterns...)
}

// GetView looks up a view by name
func (pool *ViewPool) GetView(name string) *ViewInfo {
	return pool.ViewMap[name]
}

// Serializers returns serializers in first-seen order
func (pool *ViewPool) Serializers() []*SerializerInfo {
	out := make([]*SerializerInfo, 0, len(pool.serializerOrder))
	for _, name := range pool.serializerOrder {
		out = append(out, pool.SerializerMap[name])
	}
	return out
}

// Views returns views in first-seen order
func (pool *ViewPool) Views() []*ViewInfo {
	out := make([]*ViewInfo, 0, len(pool.viewOrder))
	for _, name := range pool.viewOrder {
		out = append(out, pool.ViewMap[name])
	}
	return out
}

// ModelSchemas converts the recorded serializers into payload schemas
func (pool *ViewPool) ModelSchemas() []model.ModelSchema {
	schemas := make([]model.ModelSchema, 0, len(pool.serializerOrder))
	for _, s := range pool.Serializers() {
		fields := make([]model.ModelField, 0, len(s.Fields))
		for _, f := range s.Fields {
			fields = append(fields, model.ModelField{Name: f})
		}
		schemas = append(schemas, model.ModelSchema{Name: s.Name, Fields: fields, File: s.File})
	}
	return schemas
}
