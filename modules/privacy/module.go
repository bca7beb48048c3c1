package privacy

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the module kind with the registry. The privacy
// indicator has no settings of its own.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Privacy", &registry.RegisteredKind{
		SettingsKey: "privacy",
	})
}
