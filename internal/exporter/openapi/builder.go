package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"route-recon/internal/config"
	"route-recon/internal/exporter/common"
	"route-recon/internal/model"
)

// Output encodings
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OpenAPI Root Object
type OpenAPI struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Tags       []Tag               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

type Tag struct {
	Name string `json:"name" yaml:"name"`
}

type PathItem map[string]*Operation // Key is method: "get", "post", etc.

type Operation struct {
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`

	// Source location of the handler
	XSource string `json:"x-source,omitempty" yaml:"x-source,omitempty"`
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"` // "query", "path", "header"
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *Schema `json:"schema" yaml:"schema"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type RequestBody struct {
	Content  map[string]MediaType `json:"content" yaml:"content"`
	Required bool                 `json:"required,omitempty" yaml:"required,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Default     *string            `json:"default,omitempty" yaml:"default,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// OpenAPIExporter constructs an OpenAPI 3 document from an inventory
type OpenAPIExporter struct {
	format string
}

// NewOpenAPIExporter creates an exporter writing openapi.json or openapi.yaml
func NewOpenAPIExporter(format string) *OpenAPIExporter {
	if format != FormatYAML {
		format = FormatJSON
	}
	return &OpenAPIExporter{format: format}
}

// Format implements exporter.Exporter
func (b *OpenAPIExporter) Format() string {
	return "openapi-" + b.format
}

// Export implements exporter.Exporter
func (b *OpenAPIExporter) Export(inv *model.Inventory, cfg *config.Config) (string, error) {
	doc := Build(inv, cfg.ProjectName()+" API", "1.0.0")

	data, err := Encode(doc, b.format)
	if err != nil {
		return "", err
	}

	outputFile := filepath.Join(cfg.Output.Dir, "openapi."+b.format)
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	return outputFile, nil
}

// Encode serialises the document as JSON or YAML with two-space indentation
func Encode(doc *OpenAPI, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		encoder.Close()
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
	return buf.Bytes(), nil
}

// Build converts the inventory into an OpenAPI document
func Build(inv *model.Inventory, title, version string) *OpenAPI {
	doc := &OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       title,
			Description: fmt.Sprintf("Extracted statically from a %s project", inv.Convention),
			Version:     version,
		},
		Paths:      make(map[string]PathItem),
		Components: Components{Schemas: make(map[string]*Schema)},
	}

	for _, m := range inv.Models {
		doc.Components.Schemas[m.Name] = modelSchema(m)
	}

	for _, g := range common.GroupByTag(inv.Endpoints) {
		if g.Tag != common.DefaultTag {
			doc.Tags = append(doc.Tags, Tag{Name: g.Tag})
		}
	}

	b := builder{doc: doc}
	ids := make(map[string]int)
	for _, ep := range inv.Endpoints {
		b.addEndpoint(ep, ids)
	}
	return doc
}

type builder struct {
	doc *OpenAPI
}

func (b builder) addEndpoint(ep model.EndpointInfo, ids map[string]int) {
	path := ConvertPath(ep.Path)
	method := strings.ToLower(ep.Method)
	if method == "" {
		method = "get"
	}

	if _, ok := b.doc.Paths[path]; !ok {
		b.doc.Paths[path] = make(PathItem)
	}

	op := &Operation{
		Tags:        ep.Tags,
		Summary:     model.Deref(ep.Summary),
		Description: model.Deref(ep.Description),
		OperationID: operationID(ep, ids),
		Responses:   make(map[string]Response),
		XSource:     fmt.Sprintf("%s:%d", ep.FilePath, ep.LineNumber),
	}
	if len(op.Tags) == 0 {
		op.Tags = nil
	}
	if op.Summary == "" {
		op.Summary = ep.HandlerName
	}

	// 1. Parameters; body parameters are folded into the request body
	declared := make(map[string]bool)
	bodyProps := make(map[string]*Schema)
	var bodyRequired []string
	for _, p := range ep.Parameters {
		schema := b.typeSchema(p.DeclaredType)
		schema.Default = p.DefaultValue
		if p.Location == model.LocationBody {
			bodyProps[p.Name] = schema
			if p.Required {
				bodyRequired = append(bodyRequired, p.Name)
			}
			continue
		}
		required := p.Required
		if p.Location == model.LocationPath {
			required = true
			declared[p.Name] = true
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			In:          string(p.Location),
			Required:    required,
			Schema:      schema,
			Description: model.Deref(p.Description),
		})
	}

	// Every template variable needs a path parameter
	for _, name := range PathVariables(path) {
		if !declared[name] {
			op.Parameters = append(op.Parameters, Parameter{
				Name:     name,
				In:       "path",
				Required: true,
				Schema:   &Schema{Type: "string"},
			})
		}
	}

	// 2. Request body
	switch {
	case ep.RequestModel != nil && !isReadOnly(method):
		op.RequestBody = &RequestBody{
			Content:  map[string]MediaType{"application/json": {Schema: b.typeSchema(*ep.RequestModel)}},
			Required: true,
		}
	case len(bodyProps) > 0:
		op.RequestBody = &RequestBody{
			Content: map[string]MediaType{"application/json": {Schema: &Schema{
				Type:       "object",
				Properties: bodyProps,
				Required:   bodyRequired,
			}}},
			Required: len(bodyRequired) > 0,
		}
	}

	// 3. Response
	resp := Response{Description: "Successful response"}
	if ep.ResponseModel != nil {
		resp.Content = map[string]MediaType{"application/json": {Schema: b.typeSchema(*ep.ResponseModel)}}
	}
	status := ep.StatusCode
	if status == 0 {
		status = model.DefaultStatusCode
	}
	op.Responses[strconv.Itoa(status)] = resp

	b.doc.Paths[path][method] = op
}

func isReadOnly(method string) bool {
	return method == "get" || method == "head" || method == "delete" || method == "options"
}

// operationID returns handler_method, suffixed when the same pair repeats
func operationID(ep model.EndpointInfo, ids map[string]int) string {
	id := ep.HandlerName + "_" + strings.ToLower(ep.Method)
	ids[id]++
	if n := ids[id]; n > 1 {
		return fmt.Sprintf("%s_%d", id, n)
	}
	return id
}

var (
	// Django converters: <int:pk>, <slug>, (?P<name>...)
	angleParam = regexp.MustCompile(`<(?:\w+:)?(\w+)>`)
	regexParam = regexp.MustCompile(`\(\?P<(\w+)>[^)]*\)`)
	braceParam = regexp.MustCompile(`\{(\w+)(?::[^}]*)?\}`)
)

// ConvertPath normalises a route to OpenAPI form: leading slash, {name} placeholders
func ConvertPath(path string) string {
	path = regexParam.ReplaceAllString(path, "{$1}")
	path = angleParam.ReplaceAllString(path, "{$1}")
	path = braceParam.ReplaceAllString(path, "{$1}")
	path = strings.TrimPrefix(path, "^")
	path = strings.TrimSuffix(path, "$")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// PathVariables lists the {name} placeholders of an OpenAPI path in order
func PathVariables(path string) []string {
	var names []string
	for _, m := range braceParam.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

// typeSchema maps Python annotation text to a JSON schema
func (b builder) typeSchema(typeText string) *Schema {
	return TypeSchema(typeText, b.doc.Components.Schemas)
}

// TypeSchema maps Python annotation text to a JSON schema; names of known models become references
func TypeSchema(typeText string, models map[string]*Schema) *Schema {
	t := strings.TrimSpace(typeText)
	outer, inner := splitGeneric(t)

	switch outer {
	case "Optional", "Annotated", "typing.Optional", "typing.Annotated":
		if len(inner) > 0 {
			return TypeSchema(inner[0], models)
		}
	case "List", "list", "Sequence", "Set", "set", "FrozenSet", "Tuple", "tuple", "Iterable", "typing.List":
		items := &Schema{Type: "string"}
		if len(inner) > 0 {
			items = TypeSchema(inner[0], models)
		}
		return &Schema{Type: "array", Items: items}
	case "Dict", "dict", "Mapping", "typing.Dict":
		return &Schema{Type: "object"}
	}

	if _, ok := models[t]; ok {
		return &Schema{Ref: "#/components/schemas/" + t}
	}

	switch strings.ToLower(t) {
	case "int":
		return &Schema{Type: "integer"}
	case "float", "decimal":
		return &Schema{Type: "number"}
	case "bool":
		return &Schema{Type: "boolean"}
	case "dict", "any", "object":
		return &Schema{Type: "object"}
	case "list":
		return &Schema{Type: "array", Items: &Schema{Type: "string"}}
	}
	return &Schema{Type: "string"}
}

// splitGeneric splits "Outer[A, B[C]]" into "Outer" and its top-level arguments
func splitGeneric(t string) (string, []string) {
	open := strings.Index(t, "[")
	if open < 0 || !strings.HasSuffix(t, "]") {
		return t, nil
	}
	outer := strings.TrimSpace(t[:open])
	body := t[open+1 : len(t)-1]

	var args []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(body[start:]); last != "" {
		args = append(args, last)
	}
	return outer, args
}

func modelSchema(m model.ModelSchema) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for _, f := range m.Fields {
		if f.Type == "" {
			s.Properties[f.Name] = &Schema{Type: "string"}
			continue
		}
		s.Properties[f.Name] = TypeSchema(f.Type, nil)
	}
	return s
}
