package exporter

import (
	"route-recon/internal/config"
	"route-recon/internal/model"
)

// Exporter is the unified interface for all reporting strategies.
// Export writes one report for the inventory and returns the path it wrote.
type Exporter interface {
	Format() string
	Export(inv *model.Inventory, cfg *config.Config) (string, error)
}
