package linker

import (
	"fmt"
	"strings"

	"route-recon/internal/model"
	"route-recon/internal/utils"
)

// ActionRoute is one row of the viewset action table
type ActionRoute struct {
	Name     string
	Method   string
	IDInPath bool
}

// StandardActions is the viewset action table; a viewset that defines none of them gets
// every row in this order
var StandardActions = []ActionRoute{
	{Name: "list", Method: "GET"},
	{Name: "create", Method: "POST"},
	{Name: "retrieve", Method: "GET", IDInPath: true},
	{Name: "update", Method: "PUT", IDInPath: true},
	{Name: "partial_update", Method: "PATCH", IDInPath: true},
	{Name: "destroy", Method: "DELETE", IDInPath: true},
}

// IsStandardAction reports whether a method name is one of the table actions
func IsStandardAction(name string) bool {
	_, ok := standardAction(name)
	return ok
}

func standardAction(name string) (ActionRoute, bool) {
	for _, a := range StandardActions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionRoute{}, false
}

// viewSetActions returns the discovered actions in the order the class defines them,
// or the whole table when none were discovered
func viewSetActions(view *ViewInfo) []ActionRoute {
	if len(view.StandardActions) == 0 {
		return StandardActions
	}
	seen := make(map[string]bool, len(view.StandardActions))
	actions := make([]ActionRoute, 0, len(view.StandardActions))
	for _, name := range view.StandardActions {
		a, ok := standardAction(name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		actions = append(actions, a)
	}
	return actions
}

// Linker joins URL patterns to recorded views and produces endpoints
type Linker struct {
	Pool        *ViewPool
	diagnostics []model.Diagnostic
}

// NewLinker creates a new Linker
func NewLinker(pool *ViewPool) *Linker {
	return &Linker{
		Pool: pool,
	}
}

// Link walks the URL patterns in order and emits the endpoints of every matched view.
// Patterns without a matching view, and views no pattern reaches, only produce diagnostics.
func (l *Linker) Link() []model.EndpointInfo {
	endpoints := make([]model.EndpointInfo, 0)
	l.diagnostics = nil
	reached := make(map[string]bool)

	for _, p := range l.Pool.Patterns {
		view := l.Pool.GetView(p.Target)
		switch {
		case view == nil:
			l.report(model.DiagUnmatchedURL, p.File, p.Line, "no view named %q for %q", p.Target, p.Fragment)
			continue
		case p.Kind == PatternRouter && view.Kind != ViewKindViewSet:
			l.report(model.DiagUnmatchedURL, p.File, p.Line, "router target %q is a %s, not a viewset", p.Target, view.Kind)
			continue
		case p.Kind == PatternPath && view.Kind == ViewKindViewSet:
			l.report(model.DiagUnmatchedURL, p.File, p.Line, "path target %q is a viewset", p.Target)
			continue
		}

		reached[view.Name] = true
		if p.Kind == PatternRouter {
			endpoints = append(endpoints, viewSetEndpoints(p.Fragment, view)...)
		} else {
			endpoints = append(endpoints, viewEndpoints(p.Fragment, view)...)
		}
	}

	for _, v := range l.Pool.Views() {
		if !reached[v.Name] {
			l.report(model.DiagUnmatchedView, v.File, v.Line, "%s %q is not referenced by any URL pattern", v.Kind, v.Name)
		}
	}

	return endpoints
}

// Diagnostics returns the findings of the last Link call
func (l *Linker) Diagnostics() []model.Diagnostic {
	return l.diagnostics
}

func (l *Linker) report(kind model.DiagnosticKind, file string, line int, format string, args ...interface{}) {
	l.diagnostics = append(l.diagnostics, model.Diagnostic{
		Kind:    kind,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// viewSetEndpoints builds the standard action and custom action endpoints of a router registration
func viewSetEndpoints(prefix string, view *ViewInfo) []model.EndpointInfo {
	var endpoints []model.EndpointInfo

	tag := utils.Title(prefix)
	summary, description := utils.SplitDocstring(view.Doc)

	for _, action := range viewSetActions(view) {
		path := "/" + prefix + "/"
		if action.IDInPath {
			path += "{id}/"
		}

		ep := model.NewEndpointInfo(action.Method, path, action.Name)
		ep.Summary = summary
		if ep.Summary == nil {
			ep.Summary = model.StringPtr(utils.Title(action.Name) + " " + prefix)
		}
		ep.Description = description
		ep.Parameters = actionParameters(action)
		ep.RequestModel = model.StringPtr(view.SerializerRef)
		ep.ResponseModel = model.StringPtr(view.SerializerRef)
		ep.Tags = []string{tag}
		if action.Name == "create" {
			ep.StatusCode = 201
		}
		ep.FilePath = view.File
		ep.LineNumber = view.Line
		endpoints = append(endpoints, ep)
	}

	for _, custom := range view.CustomActions {
		path := "/" + prefix + "/" + custom.Name + "/"
		if custom.Detail {
			path = "/" + prefix + "/{id}/" + custom.Name + "/"
		}
		summary, description := utils.SplitDocstring(custom.Doc)
		if summary == nil {
			summary = model.StringPtr(utils.Title(custom.Name) + " " + prefix)
		}
		for _, method := range custom.Methods {
			ep := model.NewEndpointInfo(strings.ToUpper(method), path, custom.Name)
			ep.Summary = summary
			ep.Description = description
			ep.Tags = []string{tag}
			ep.FilePath = view.File
			ep.LineNumber = custom.Line
			endpoints = append(endpoints, ep)
		}
	}

	return endpoints
}

// viewEndpoints builds one endpoint per HTTP method of a class or function view
func viewEndpoints(fragment string, view *ViewInfo) []model.EndpointInfo {
	var endpoints []model.EndpointInfo
	for _, h := range view.HTTPMethods {
		doc := h.Doc
		if strings.TrimSpace(doc) == "" {
			doc = view.Doc
		}
		summary, description := utils.SplitDocstring(doc)
		if summary == nil {
			summary = model.StringPtr(view.Name)
		}

		ep := model.NewEndpointInfo(h.Method, "/"+fragment, view.Name)
		ep.Summary = summary
		ep.Description = description
		ep.Tags = []string{"API"}
		ep.FilePath = view.File
		ep.LineNumber = view.Line
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

// actionParameters synthesizes the id path parameter and list pagination parameters
func actionParameters(action ActionRoute) []model.EndpointParameter {
	params := make([]model.EndpointParameter, 0, 2)
	if action.IDInPath {
		params = append(params, model.NewParameter("id", model.LocationPath, "int", nil))
	}
	if action.Name == "list" {
		page, pageSize := "1", "None"
		params = append(params,
			model.NewParameter("page", model.LocationQuery, "int", &page),
			model.NewParameter("page_size", model.LocationQuery, "int", &pageSize),
		)
	}
	return params
}
