package tray

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the module kind with the registry. The tray has no
// settings of its own.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Tray", &registry.RegisteredKind{
		SettingsKey: "tray",
	})
}
