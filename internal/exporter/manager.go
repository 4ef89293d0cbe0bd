package exporter

import (
	"strings"

	"route-recon/internal/exporter/html"
	"route-recon/internal/exporter/openapi"
	"route-recon/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats.
// Unknown formats are skipped and returned separately so the caller can warn about them.
func GetExporters(formats []string) ([]Exporter, []string) {
	exporters := []Exporter{}
	var unknown []string
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if fmtStr == "" {
			continue
		}

		var exp Exporter
		switch fmtStr {
		case "json":
			exp = NewJSONExporter()
		case "openapi", "openapi-json", "swagger":
			exp = openapi.NewOpenAPIExporter(openapi.FormatJSON)
		case "openapi-yaml", "yaml":
			exp = openapi.NewOpenAPIExporter(openapi.FormatYAML)
		case "excel", "xlsx":
			exp = NewExcelExporter()
		case "html":
			exp = html.NewHTMLExporter()
		case "word", "docx":
			exp = word.NewWordExporter()
		default:
			unknown = append(unknown, fmtStr)
			continue
		}

		// Aliases collapse onto one exporter
		if seen[exp.Format()] {
			continue
		}
		seen[exp.Format()] = true
		exporters = append(exporters, exp)
	}

	return exporters, unknown
}
