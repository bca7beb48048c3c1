package keyboard_layout

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [keyboard_layout] configuration table.
type Settings struct {
	// Labels maps full layout names to the short label shown on the bar,
	// for example "English (US)" to "EN".
	Labels map[string]string `mapstructure:"labels"`
}

// DefaultSettings returns the settings used when no [keyboard_layout] table
// is present.
func DefaultSettings() *Settings {
	return &Settings{
		Labels: map[string]string{},
	}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("KeyboardLayout", &registry.RegisteredKind{
		SettingsKey: "keyboard_layout",
		NewSettings: func() any { return DefaultSettings() },
	})
}
