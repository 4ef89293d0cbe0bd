package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	"route-recon/internal/config"
	"route-recon/internal/exporter/common"
	"route-recon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetOverview    = "Overview"
	SheetEndpoints   = "Endpoints"
	SheetModels      = "Models"
	SheetDiagnostics = "Diagnostics"
)

// EndpointHeaders are the columns of the endpoint sheet
var EndpointHeaders = []string{"No", "Method", "Path", "Handler", "Summary", "Parameters", "Request", "Response", "Status", "Source"}

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Format implements Exporter
func (e *ExcelExporter) Format() string {
	return "excel"
}

// Export generates the Excel report
func (e *ExcelExporter) Export(inv *model.Inventory, cfg *config.Config) (string, error) {
	outputFile := filepath.Join(cfg.Output.Dir, cfg.Output.FileName+".xlsx")
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return "", err
	}

	// 1. Overview Sheet
	if err := e.writeOverview(f, styler, inv); err != nil {
		return "", err
	}

	// 2. Endpoint Sheet, grouped by tag
	if err := e.writeEndpoints(f, styler, inv.Endpoints); err != nil {
		return "", err
	}

	// 3. Models and Diagnostics
	if err := e.writeModels(f, styler, inv.Models); err != nil {
		return "", err
	}
	if err := e.writeDiagnostics(f, styler, inv.Diagnostics); err != nil {
		return "", err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(SheetOverview); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", outputFile, err)
	}

	return outputFile, nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, inv *model.Inventory) error {
	sheet := SheetOverview
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Section A: Run Summary
	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Value"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Convention", inv.Convention},
		{"Project Root", inv.Root},
		{"Analyzed At", inv.AnalyzedAt},
		{"Total Endpoints", len(inv.Endpoints)},
		{"Total Models", len(inv.Models)},
		{"Total Diagnostics", len(inv.Diagnostics)},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	row += 2 // Spacer

	// Section B: Verb Breakdown
	e.writeRow(f, sheet, row, []string{"Method", "Endpoints"}, s.HeaderStyle)
	row++
	for _, mc := range common.CountMethods(inv.Endpoints) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), mc.Method)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), mc.Count)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), s.MethodStyle(mc.Method))
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	row += 2

	// Section C: Tag Breakdown
	e.writeRow(f, sheet, row, []string{"Tag", "Endpoints"}, s.HeaderStyle)
	row++
	for _, g := range common.GroupByTag(inv.Endpoints) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.Tag)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), len(g.Endpoints))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	// Adjust column widths
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 60)

	return nil
}

// --- Endpoint Sheet Logic ---

func (e *ExcelExporter) writeEndpoints(f *excelize.File, s *Styler, endpoints []model.EndpointInfo) error {
	sheet := SheetEndpoints
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	e.writeRow(f, sheet, 1, EndpointHeaders, s.HeaderStyle)
	lastCol, _ := excelize.ColumnNumberToName(len(EndpointHeaders))

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	no := 1
	for _, group := range common.GroupByTag(endpoints) {
		// Group row
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("[%s]", group.Tag))
		f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), s.GroupStyle)
		row++

		for _, ep := range group.Endpoints {
			e.writeEndpointRow(f, sheet, row, no, ep, s)
			row++
			no++
		}
	}

	f.SetColWidth(sheet, "A", "A", 6)  // No
	f.SetColWidth(sheet, "B", "B", 10) // Method
	f.SetColWidth(sheet, "C", "C", 40) // Path
	f.SetColWidth(sheet, "D", "D", 28) // Handler
	f.SetColWidth(sheet, "E", "E", 40) // Summary
	f.SetColWidth(sheet, "F", "F", 50) // Parameters
	f.SetColWidth(sheet, "G", "H", 24) // Request/Response
	f.SetColWidth(sheet, "I", "I", 8)  // Status
	f.SetColWidth(sheet, "J", "J", 36) // Source

	return nil
}

func (e *ExcelExporter) writeEndpointRow(f *excelize.File, sheet string, row, no int, ep model.EndpointInfo, s *Styler) {
	values := []interface{}{
		no,
		ep.Method,
		ep.Path,
		ep.HandlerName,
		model.Deref(ep.Summary),
		common.FormatParams(ep.Parameters, "\n"),
		model.Deref(ep.RequestModel),
		model.Deref(ep.ResponseModel),
		ep.StatusCode,
		fmt.Sprintf("%s:%d", ep.FilePath, ep.LineNumber),
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(values))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), s.WrapStyle)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), s.MethodStyle(ep.Method))
}

// --- Models / Diagnostics ---

func (e *ExcelExporter) writeModels(f *excelize.File, s *Styler, models []model.ModelSchema) error {
	sheet := SheetModels
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	e.writeRow(f, sheet, 1, []string{"Model", "Field", "Type", "File"}, s.HeaderStyle)

	row := 2
	for _, m := range models {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.File)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), s.GroupStyle)
		row++
		for _, field := range m.Fields {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), field.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), field.Type)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), s.DefaultStyle)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "D", 30)
	return nil
}

func (e *ExcelExporter) writeDiagnostics(f *excelize.File, s *Styler, diags []model.Diagnostic) error {
	sheet := SheetDiagnostics
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	e.writeRow(f, sheet, 1, []string{"Kind", "File", "Line", "Message"}, s.HeaderStyle)

	for i, d := range diags {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(d.Kind))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.File)
		if d.Line > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.Line)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), strings.TrimSpace(d.Message))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), s.WarningStyle)
	}

	f.SetColWidth(sheet, "A", "A", 16)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "D", "D", 70)
	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
