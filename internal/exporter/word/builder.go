package word

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"route-recon/internal/config"
	"route-recon/internal/exporter/common"
	"route-recon/internal/model"

	"github.com/nguyenthenguyen/docx"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Format() string {
	return "word"
}

func (e *WordExporter) Export(inv *model.Inventory, cfg *config.Config) (string, error) {
	// 1. Load the template from memory
	templateBytes, err := Template()
	if err != nil {
		return "", fmt.Errorf("failed to build template: %w", err)
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(templateBytes), int64(len(templateBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to read docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// 2. Replace Summary Placeholders
	replacements := []struct{ old, new string }{
		{PlaceholderTitle, cfg.ProjectName() + " API"},
		{PlaceholderDate, inv.AnalyzedAt},
		{PlaceholderConvention, inv.Convention},
		{PlaceholderEndpoints, fmt.Sprintf("%d", len(inv.Endpoints))},
		// The docx library handles the XML encoding and line breaks
		{PlaceholderContent, BuildContent(inv)},
	}
	for _, rep := range replacements {
		if err := doc.Replace(rep.old, rep.new, -1); err != nil {
			return "", fmt.Errorf("failed to fill %s: %w", rep.old, err)
		}
	}

	outFile := filepath.Join(cfg.Output.Dir, cfg.Output.FileName+".docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return "", fmt.Errorf("failed to write Word document: %w", err)
	}

	return outFile, nil
}

// BuildContent renders the endpoint reference as plain text, one tag section at a time
func BuildContent(inv *model.Inventory) string {
	var sb strings.Builder

	sb.WriteString("API REFERENCE\n\n")
	for _, mc := range common.CountMethods(inv.Endpoints) {
		fmt.Fprintf(&sb, "  • %-7s %d\n", mc.Method, mc.Count)
	}
	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")

	for _, group := range common.GroupByTag(inv.Endpoints) {
		fmt.Fprintf(&sb, "## %s\n\n", group.Tag)
		for i := range group.Endpoints {
			buildEndpointText(&sb, &group.Endpoints[i])
			sb.WriteString(strings.Repeat("-", 80) + "\n\n")
		}
	}

	if len(inv.Models) > 0 {
		sb.WriteString("MODELS:\n")
		for _, m := range inv.Models {
			fmt.Fprintf(&sb, "%s (%s)\n", m.Name, m.File)
			for _, f := range m.Fields {
				fmt.Fprintf(&sb, "  └ %-25s %s\n", truncate(f.Name, 25), f.Type)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildEndpointText builds plain text documentation for a single API endpoint
func buildEndpointText(sb *strings.Builder, endpoint *model.EndpointInfo) {
	fmt.Fprintf(sb, "[%s] %s\n", endpoint.Method, endpoint.Path)
	fmt.Fprintf(sb, "Handler: %s (%s:%d)\n", endpoint.HandlerName, endpoint.FilePath, endpoint.LineNumber)

	if s := model.Deref(endpoint.Summary); s != "" {
		fmt.Fprintf(sb, "Summary: %s\n", s)
	}
	if d := model.Deref(endpoint.Description); d != "" {
		fmt.Fprintf(sb, "%s\n", d)
	}
	sb.WriteString("\n")

	if len(endpoint.Parameters) > 0 {
		sb.WriteString("PARAMETERS:\n")
		fmt.Fprintf(sb, "%-25s %-20s %-8s %-10s %s\n", "Name", "Type", "In", "Required", "Default")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, param := range endpoint.Parameters {
			required := "No"
			if param.Required {
				required = "Yes"
			}
			fmt.Fprintf(sb, "%-25s %-20s %-8s %-10s %s\n",
				truncate(param.Name, 25),
				truncate(param.DeclaredType, 20),
				param.Location,
				required,
				model.Deref(param.DefaultValue))
		}
		sb.WriteString("\n")
	}

	if req := model.Deref(endpoint.RequestModel); req != "" {
		fmt.Fprintf(sb, "REQUEST BODY: %s\n\n", req)
	}

	response := model.Deref(endpoint.ResponseModel)
	if response == "" {
		response = "-"
	}
	fmt.Fprintf(sb, "RESPONSE: %d %s\n\n", endpoint.StatusCode, response)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
