package clock

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [clock] configuration table.
type Settings struct {
	// Format is a strftime-style format string for the displayed time.
	Format string `mapstructure:"format"`
}

// DefaultSettings returns the settings used when no [clock] table is present.
func DefaultSettings() *Settings {
	return &Settings{
		Format: "%a %d %b %R",
	}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Clock", &registry.RegisteredKind{
		SettingsKey: "clock",
		NewSettings: func() any { return DefaultSettings() },
	})
}
