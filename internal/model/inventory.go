package model

import "fmt"

// ModelField is one field of a payload model
type ModelField struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ModelSchema describes a payload type (pydantic model or DRF serializer)
type ModelSchema struct {
	Name   string       `json:"name"`
	Fields []ModelField `json:"fields"`
	File   string       `json:"file"`
}

// DiagnosticKind classifies a non-fatal analysis finding
type DiagnosticKind string

const (
	DiagParseError    DiagnosticKind = "parse_error"
	DiagReadError     DiagnosticKind = "read_error"
	DiagUnmatchedURL  DiagnosticKind = "unmatched_url"
	DiagUnmatchedView DiagnosticKind = "unmatched_view"
)

// Diagnostic is a non-fatal finding. Diagnostics never change the endpoint list.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	File    string         `json:"file"`
	Line    int            `json:"line,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d %s", d.Kind, d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("[%s] %s %s", d.Kind, d.File, d.Message)
}

// Inventory is the result of one analysis run
type Inventory struct {
	Convention  string         `json:"convention"`
	Root        string         `json:"root"`
	Endpoints   []EndpointInfo `json:"endpoints"`
	Models      []ModelSchema  `json:"models"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	AnalyzedAt  string         `json:"analyzed_at,omitempty"`
}

// NewInventory creates an empty inventory for the given convention and root
func NewInventory(convention, root string) *Inventory {
	return &Inventory{
		Convention:  convention,
		Root:        root,
		Endpoints:   make([]EndpointInfo, 0),
		Models:      make([]ModelSchema, 0),
		Diagnostics: make([]Diagnostic, 0),
	}
}

// AddDiagnostic appends a diagnostic
func (inv *Inventory) AddDiagnostic(kind DiagnosticKind, file string, line int, format string, args ...interface{}) {
	inv.Diagnostics = append(inv.Diagnostics, Diagnostic{
		Kind:    kind,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// CountDiagnostics returns how many diagnostics of the given kind were recorded
func (inv *Inventory) CountDiagnostics(kind DiagnosticKind) int {
	n := 0
	for _, d := range inv.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// FindModel looks up a model schema by name
func (inv *Inventory) FindModel(name string) (ModelSchema, bool) {
	for _, m := range inv.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelSchema{}, false
}
