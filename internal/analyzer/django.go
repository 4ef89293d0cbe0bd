package analyzer

import (
	"context"
	"fmt"
	"path"
	"strings"

	"route-recon/internal/linker"
	"route-recon/internal/logger"
	"route-recon/internal/model"
	"route-recon/internal/pyparser"
)

// viewVerbs are the method names a class view serves
var viewVerbs = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// DjangoExtractor cross-references serializers, views and URL tables in three passes
type DjangoExtractor struct {
	cfg *AnalyzerConfig
}

// NewDjangoExtractor creates an extractor for the split convention
func NewDjangoExtractor(cfg *AnalyzerConfig) *DjangoExtractor {
	return &DjangoExtractor{cfg: cfg}
}

// Convention implements Extractor
func (e *DjangoExtractor) Convention() Convention {
	return ConventionDjango
}

// Analyze implements Extractor. Every call owns a fresh pool and parse cache.
func (e *DjangoExtractor) Analyze(ctx context.Context) (*model.Inventory, error) {
	inv := model.NewInventory(string(ConventionDjango), e.cfg.RootDir)

	files, err := ScanDirectory(e.cfg.RootDir, e.cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", e.cfg.RootDir, err)
	}

	pool := linker.NewViewPool()
	cache := newModuleCache(e.cfg.cacheSize())
	failures := newFailureRecorder(inv)
	root := e.cfg.RootDir

	// Pass 1: serializers
	serializerFiles := filterPaths(root, files, func(rel string) bool {
		return strings.Contains(rel, "serializers")
	})
	sources, err := loadSources(ctx, e.cfg, serializerFiles, cache)
	if err != nil {
		return nil, err
	}
	for _, sf := range sources {
		if failures.record(sf, "django serializers") {
			continue
		}
		collectSerializers(pool, sf)
	}
	logger.Debug("django: %d serializers from %d files", len(pool.SerializerMap), len(serializerFiles))

	// Pass 2: views
	viewFiles := filterPaths(root, files, func(rel string) bool {
		return !strings.Contains(rel, "admin")
	})
	sources, err = loadSources(ctx, e.cfg, viewFiles, cache)
	if err != nil {
		return nil, err
	}
	for _, sf := range sources {
		if failures.record(sf, "django views") {
			continue
		}
		collectViews(pool, sf.Module.Body, sf.Rel, false)
	}
	logger.Debug("django: %d views from %d files", len(pool.ViewMap), len(viewFiles))

	// Pass 3: URL tables (text scan, so a file that fails to parse still contributes)
	urlFiles := filterPaths(root, files, func(rel string) bool {
		return path.Base(rel) == "urls.py"
	})
	sources, err = loadSources(ctx, e.cfg, urlFiles, cache)
	if err != nil {
		return nil, err
	}
	for _, sf := range sources {
		if failures.record(sf, "django urls") && sf.Kind == model.DiagReadError {
			continue
		}
		pool.AddPatterns(linker.ScanURLPatterns(sf.Content, sf.Rel)...)
	}
	logger.Debug("django: %d url patterns from %d files", len(pool.Patterns), len(urlFiles))

	// Join
	l := linker.NewLinker(pool)
	inv.Endpoints = l.Link()
	inv.Diagnostics = append(inv.Diagnostics, l.Diagnostics()...)
	inv.Models = pool.ModelSchemas()

	logger.Debug("django: %d endpoints, %d diagnostics", len(inv.Endpoints), len(inv.Diagnostics))
	return inv, nil
}

// collectSerializers records every class (nested ones included) whose base mentions Serializer
func collectSerializers(pool *linker.ViewPool, sf *sourceFile) {
	for _, cls := range sf.Module.Classes() {
		if !baseContains(cls, "Serializer") {
			continue
		}
		pool.AddSerializer(&linker.SerializerInfo{
			Name:   cls.Name,
			Fields: cls.FieldNames(),
			File:   sf.Rel,
		})
	}
}

// collectViews records views in source order. Function views only count outside classes.
func collectViews(pool *linker.ViewPool, stmts []pyparser.Stmt, rel string, inClass bool) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *pyparser.ClassDef:
			if view := classView(st, rel); view != nil {
				pool.AddView(view)
			}
			collectViews(pool, st.Body, rel, true)
		case *pyparser.FunctionDef:
			if !inClass && st.HasDecorator("api_view") {
				pool.AddView(functionView(st, rel))
			}
			collectViews(pool, st.Body, rel, inClass)
		case *pyparser.Block:
			collectViews(pool, st.Body, rel, inClass)
		}
	}
}

// viewKindOf classifies a class by the first base that names a view type
func viewKindOf(cls *pyparser.ClassDef) (linker.ViewKind, bool) {
	for _, base := range cls.BaseText() {
		if strings.Contains(base, "ViewSet") {
			return linker.ViewKindViewSet, true
		}
		if strings.Contains(base, "APIView") {
			return linker.ViewKindClass, true
		}
	}
	return "", false
}

func classView(cls *pyparser.ClassDef, rel string) *linker.ViewInfo {
	kind, ok := viewKindOf(cls)
	if !ok {
		return nil
	}
	view := &linker.ViewInfo{
		Name: cls.Name,
		Kind: kind,
		File: rel,
		Line: cls.Line,
		Doc:  cls.Doc,
	}

	if kind == linker.ViewKindViewSet {
		view.SerializerRef = serializerClass(cls)
		for _, m := range cls.Methods() {
			if linker.IsStandardAction(m.Name) {
				view.StandardActions = append(view.StandardActions, m.Name)
			}
			if action, ok := customAction(m); ok {
				view.CustomActions = append(view.CustomActions, action)
			}
		}
		return view
	}

	for _, m := range cls.Methods() {
		for _, verb := range viewVerbs {
			if m.Name == verb {
				view.HTTPMethods = append(view.HTTPMethods, linker.MethodHandler{
					Method: strings.ToUpper(verb),
					Doc:    m.Doc,
					Line:   m.Line,
				})
			}
		}
	}
	return view
}

// serializerClass reads "serializer_class = SomeSerializer" from the class body
func serializerClass(cls *pyparser.ClassDef) string {
	for _, s := range cls.Body {
		as, ok := s.(*pyparser.Assign)
		if !ok {
			continue
		}
		for _, t := range as.Targets {
			if n, ok := t.(*pyparser.Name); ok && n.ID == "serializer_class" {
				if v, ok := as.Value.(*pyparser.Name); ok {
					return v.ID
				}
			}
		}
	}
	return ""
}

// customAction parses @action(methods=[...], detail=...) on a viewset method
func customAction(m *pyparser.FunctionDef) (linker.CustomAction, bool) {
	for _, dec := range m.Decorators {
		call, ok := dec.(*pyparser.Call)
		if !ok || pyparser.CalleeName(call) != "action" {
			continue
		}

		action := linker.CustomAction{
			Name:    m.Name,
			Methods: []string{"get"},
			Doc:     m.Doc,
			Line:    m.Line,
		}
		if v, ok := call.Keyword("methods"); ok {
			if list, ok := v.(*pyparser.List); ok {
				action.Methods, _ = pyparser.StringElements(list)
			}
		}
		if v, ok := call.Keyword("detail"); ok {
			if c, ok := v.(*pyparser.Constant); ok {
				action.Detail = c.Kind == pyparser.ConstBool && c.Value == "True"
			}
		}
		return action, true
	}
	return linker.CustomAction{}, false
}

// functionView records an @api_view function; missing or empty method lists mean GET
func functionView(fn *pyparser.FunctionDef, rel string) *linker.ViewInfo {
	var methods []string
	for _, dec := range fn.Decorators {
		call, ok := dec.(*pyparser.Call)
		if !ok || pyparser.CalleeName(call) != "api_view" {
			continue
		}
		if len(call.Args) > 0 {
			if list, ok := call.Args[0].(*pyparser.List); ok {
				methods, _ = pyparser.StringElements(list)
			}
		}
		break
	}
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	view := &linker.ViewInfo{
		Name: fn.Name,
		Kind: linker.ViewKindFunction,
		File: rel,
		Line: fn.Line,
		Doc:  fn.Doc,
	}
	for _, m := range methods {
		view.HTTPMethods = append(view.HTTPMethods, linker.MethodHandler{
			Method: strings.ToUpper(m),
			Doc:    fn.Doc,
			Line:   fn.Line,
		})
	}
	return view
}
