package clipboard

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [clipboard] configuration table.
type Settings struct {
	// Command opens the clipboard history picker.
	Command string `mapstructure:"command"`
}

// DefaultSettings returns the settings used when no [clipboard] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Clipboard", &registry.RegisteredKind{
		SettingsKey: "clipboard",
		NewSettings: func() any { return DefaultSettings() },
	})
}
