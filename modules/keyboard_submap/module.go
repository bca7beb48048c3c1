package keyboard_submap

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the module kind with the registry. The submap
// indicator has no settings; its table name stays reserved so a stray
// [keyboard_submap] table produces a precise error.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("KeyboardSubmap", &registry.RegisteredKind{
		SettingsKey: "keyboard_submap",
	})
}
