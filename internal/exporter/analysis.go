package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"route-recon/internal/config"
	"route-recon/internal/model"
)

// MarshalAnalysis renders endpoints as the analysis artifact:
// a JSON array indented by two spaces with HTML escaping disabled.
// Identical input always yields identical bytes.
func MarshalAnalysis(endpoints []model.EndpointInfo) ([]byte, error) {
	if endpoints == nil {
		endpoints = []model.EndpointInfo{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(endpoints); err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAnalysis writes the analysis artifact verbatim to path, creating parent directories
func WriteAnalysis(path string, endpoints []model.EndpointInfo) error {
	data, err := MarshalAnalysis(endpoints)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}

// JSONExporter writes the analysis artifact to the configured output path
type JSONExporter struct{}

// NewJSONExporter creates a new JSONExporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format implements Exporter
func (e *JSONExporter) Format() string {
	return "json"
}

// Export implements Exporter
func (e *JSONExporter) Export(inv *model.Inventory, cfg *config.Config) (string, error) {
	path := cfg.GetOutputPath()
	return path, WriteAnalysis(path, inv.Endpoints)
}
