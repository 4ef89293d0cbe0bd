package exporter

import (
	"github.com/xuri/excelize/v2"
)

// Styler handles Excel styling
type Styler struct {
	File *excelize.File

	// Pre-defined styles
	HeaderStyle  int
	GroupStyle   int
	DefaultStyle int
	WrapStyle    int
	WarningStyle int

	// Verb column styles, keyed by uppercase method
	MethodStyles map[string]int
}

// methodColors follow the usual API reference palette
var methodColors = map[string]string{
	"GET":    "#2E7D32", // Green
	"POST":   "#1565C0", // Blue
	"PUT":    "#EF6C00", // Orange
	"PATCH":  "#00838F", // Teal
	"DELETE": "#C62828", // Red
}

// NewStyler creates a new Styler and explicitly registers styles
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f, MethodStyles: make(map[string]int)}
	var err error

	// Header Style: Bold, Gray Background, Center Aligned
	s.HeaderStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#000000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Group Style: Blue bold text on a light band (one row per tag)
	s.GroupStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#0000FF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#EEF3FB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.DefaultStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	s.WrapStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Warning Style: Red Text (diagnostics)
	s.WarningStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#D32F2F"},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	for method, color := range methodColors {
		s.MethodStyles[method], err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: color},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    createBorder(),
		})
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// MethodStyle returns the verb style, or the default style for uncoloured verbs
func (s *Styler) MethodStyle(method string) int {
	if style, ok := s.MethodStyles[method]; ok {
		return style
	}
	return s.DefaultStyle
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
