package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"route-recon/internal/logger"
	"route-recon/internal/model"
	"route-recon/internal/pyparser"
	"route-recon/internal/utils"
)

// routeVerbs are the decorator attributes that register a route
var routeVerbs = map[string]bool{
	"get":     true,
	"post":    true,
	"put":     true,
	"delete":  true,
	"patch":   true,
	"options": true,
	"head":    true,
}

// statusAttr matches status.HTTP_201_CREATED style constants
var statusAttr = regexp.MustCompile(`^HTTP_(\d{3})(?:_|$)`)

// FastAPIExtractor finds endpoints declared by route decorators in a single pass per file
type FastAPIExtractor struct {
	cfg *AnalyzerConfig
}

// NewFastAPIExtractor creates an extractor for the decorator convention
func NewFastAPIExtractor(cfg *AnalyzerConfig) *FastAPIExtractor {
	return &FastAPIExtractor{cfg: cfg}
}

// Convention implements Extractor
func (e *FastAPIExtractor) Convention() Convention {
	return ConventionFastAPI
}

// Analyze implements Extractor
func (e *FastAPIExtractor) Analyze(ctx context.Context) (*model.Inventory, error) {
	inv := model.NewInventory(string(ConventionFastAPI), e.cfg.RootDir)

	files, err := ScanDirectory(e.cfg.RootDir, e.cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", e.cfg.RootDir, err)
	}
	logger.Debug("fastapi: %d candidate files", len(files))

	sources, err := loadSources(ctx, e.cfg, files, nil)
	if err != nil {
		return nil, err
	}

	failures := newFailureRecorder(inv)
	for _, sf := range sources {
		if failures.record(sf, "fastapi routes") {
			continue
		}
		for _, fn := range sf.Module.Functions() {
			if ep, ok := extractRoute(fn, sf.Rel); ok {
				inv.Endpoints = append(inv.Endpoints, ep)
			}
		}
		for _, cls := range sf.Module.Classes() {
			if baseContains(cls, "BaseModel") {
				inv.Models = append(inv.Models, pydanticSchema(cls, sf.Rel))
			}
		}
	}

	logger.Debug("fastapi: %d endpoints, %d models, %d diagnostics",
		len(inv.Endpoints), len(inv.Models), len(inv.Diagnostics))
	return inv, nil
}

// extractRoute builds an endpoint from the first route marker of fn
func extractRoute(fn *pyparser.FunctionDef, rel string) (model.EndpointInfo, bool) {
	for _, dec := range fn.Decorators {
		call, verb, path, ok := routeMarker(dec)
		if !ok {
			continue
		}

		ep := model.NewEndpointInfo(strings.ToUpper(verb), path, fn.Name)
		ep.Summary, ep.Description = utils.SplitDocstring(fn.Doc)
		ep.Parameters = routeParameters(fn)
		ep.RequestModel, ep.ResponseModel = routeModels(fn, call)
		ep.Tags = routeTags(call)
		ep.StatusCode = routeStatus(call)
		ep.FilePath = rel
		ep.LineNumber = fn.Line
		return ep, true
	}
	return model.EndpointInfo{}, false
}

// routeMarker recognises @<anything>.<verb>("<path>", ...)
func routeMarker(dec pyparser.Expr) (*pyparser.Call, string, string, bool) {
	call, ok := dec.(*pyparser.Call)
	if !ok {
		return nil, "", "", false
	}
	attr, ok := call.Func.(*pyparser.Attribute)
	if !ok || !routeVerbs[attr.Attr] || len(call.Args) == 0 {
		return nil, "", "", false
	}
	path, ok := pyparser.StringValue(call.Args[0])
	if !ok {
		return nil, "", "", false
	}
	return call, attr.Attr, path, true
}

// routeParameters converts the signature; receivers and splat parameters are left out
func routeParameters(fn *pyparser.FunctionDef) []model.EndpointParameter {
	params := make([]model.EndpointParameter, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Kind == pyparser.ParamVarArgs || p.Kind == pyparser.ParamVarKeywords {
			continue
		}
		if p.Name == "self" || p.Name == "cls" {
			continue
		}

		var defaultValue *string
		if p.Default != nil {
			v := pyparser.ValueString(p.Default)
			defaultValue = &v
		}

		location := model.LocationQuery
		declaredType := ""
		if p.Annotation != nil {
			declaredType = pyparser.TypeString(p.Annotation)
			location = locationFor(declaredType)
		}
		params = append(params, model.NewParameter(p.Name, location, declaredType, defaultValue))
	}
	return params
}

// locationFor promotes a query parameter by the marker its type text mentions
func locationFor(typeText string) model.ParamLocation {
	switch {
	case strings.Contains(typeText, "Path"):
		return model.LocationPath
	case strings.Contains(typeText, "Body"):
		return model.LocationBody
	case strings.Contains(typeText, "Header"):
		return model.LocationHeader
	}
	return model.LocationQuery
}

// routeModels returns the request model (first capitalised, non Path/Query annotation)
// and the response model (return annotation, overridden by response_model=)
func routeModels(fn *pyparser.FunctionDef, call *pyparser.Call) (request, response *string) {
	if fn.Returns != nil {
		response = model.StringPtr(pyparser.TypeString(fn.Returns))
	}
	if v, ok := call.Keyword("response_model"); ok {
		response = model.StringPtr(pyparser.TypeString(v))
	}

	for _, p := range fn.Params {
		if p.Annotation == nil || (p.Kind != pyparser.ParamPositionalOnly && p.Kind != pyparser.ParamRegular) {
			continue
		}
		typeText := pyparser.TypeString(p.Annotation)
		first, _ := firstRune(typeText)
		if unicode.IsUpper(first) && !strings.Contains(typeText, "Path") && !strings.Contains(typeText, "Query") {
			request = model.StringPtr(typeText)
			break
		}
	}
	return request, response
}

func routeTags(call *pyparser.Call) []string {
	tags := make([]string, 0)
	v, ok := call.Keyword("tags")
	if !ok {
		return tags
	}
	list, ok := v.(*pyparser.List)
	if !ok {
		return tags
	}
	tags, _ = pyparser.StringElements(list)
	return tags
}

// routeStatus reads status_code=201 or status_code=status.HTTP_201_CREATED
func routeStatus(call *pyparser.Call) int {
	v, ok := call.Keyword("status_code")
	if !ok {
		return model.DefaultStatusCode
	}
	switch x := v.(type) {
	case *pyparser.Constant:
		if x.Kind == pyparser.ConstInt {
			if code, err := strconv.Atoi(x.Value); err == nil {
				return code
			}
		}
	case *pyparser.Attribute:
		if m := statusAttr.FindStringSubmatch(x.Attr); m != nil {
			code, _ := strconv.Atoi(m[1])
			return code
		}
	}
	return model.DefaultStatusCode
}

// pydanticSchema records annotated class attributes as model fields
func pydanticSchema(cls *pyparser.ClassDef, rel string) model.ModelSchema {
	schema := model.ModelSchema{Name: cls.Name, Fields: make([]model.ModelField, 0), File: rel}
	for _, s := range cls.Body {
		ann, ok := s.(*pyparser.AnnAssign)
		if !ok {
			continue
		}
		if name, ok := ann.Target.(*pyparser.Name); ok {
			schema.Fields = append(schema.Fields, model.ModelField{
				Name: name.ID,
				Type: pyparser.TypeString(ann.Annotation),
			})
		}
	}
	return schema
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
