package html

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"route-recon/internal/config"
	"route-recon/internal/exporter/common"
	"route-recon/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// Data structures for the API reference template
type APIReportData struct {
	Title          string
	Convention     string
	AnalyzedAt     string
	TotalEndpoints int
	TotalModels    int
	Groups         []EndpointGroup
	Models         []model.ModelSchema
	Diagnostics    []model.Diagnostic
}

// EndpointGroup is one tag section of the page
type EndpointGroup struct {
	Tag       string
	Anchor    string
	Endpoints []EndpointView
}

// EndpointView flattens an endpoint for the template
type EndpointView struct {
	Method      string
	Path        string
	Handler     string
	Summary     string
	Description string
	Params      []model.EndpointParameter
	Request     string
	Response    string
	StatusCode  int
	Source      string
}

func (e *HTMLExporter) Format() string {
	return "html"
}

func (e *HTMLExporter) Export(inv *model.Inventory, cfg *config.Config) (string, error) {
	outputFile := filepath.Join(cfg.Output.Dir, cfg.Output.FileName+".html")
	f, err := os.Create(outputFile)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Render(f, NewReportData(inv, cfg.ProjectName()+" API")); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", outputFile, err)
	}
	return outputFile, nil
}

// NewReportData groups the inventory by tag for rendering
func NewReportData(inv *model.Inventory, title string) APIReportData {
	data := APIReportData{
		Title:          title,
		Convention:     inv.Convention,
		AnalyzedAt:     inv.AnalyzedAt,
		TotalEndpoints: len(inv.Endpoints),
		TotalModels:    len(inv.Models),
		Models:         inv.Models,
		Diagnostics:    inv.Diagnostics,
	}

	for i, g := range common.GroupByTag(inv.Endpoints) {
		group := EndpointGroup{Tag: g.Tag, Anchor: fmt.Sprintf("tag-%d", i)}
		for _, ep := range g.Endpoints {
			group.Endpoints = append(group.Endpoints, EndpointView{
				Method:      ep.Method,
				Path:        ep.Path,
				Handler:     ep.HandlerName,
				Summary:     model.Deref(ep.Summary),
				Description: model.Deref(ep.Description),
				Params:      ep.Parameters,
				Request:     model.Deref(ep.RequestModel),
				Response:    model.Deref(ep.ResponseModel),
				StatusCode:  ep.StatusCode,
				Source:      fmt.Sprintf("%s:%d", ep.FilePath, ep.LineNumber),
			})
		}
		data.Groups = append(data.Groups, group)
	}
	return data
}

// Render executes the report template into w
func Render(w io.Writer, data APIReportData) error {
	tmpl, err := template.New("api-report").Funcs(template.FuncMap{
		"methodColor": getMethodColor,
		"deref":       model.Deref,
	}).Parse(APIReportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// getMethodColor returns CSS color class for HTTP method
func getMethodColor(method string) string {
	switch strings.ToUpper(method) {
	case "GET":
		return "method-get"
	case "POST":
		return "method-post"
	case "PUT":
		return "method-put"
	case "DELETE":
		return "method-delete"
	case "PATCH":
		return "method-patch"
	default:
		return "method-default"
	}
}
