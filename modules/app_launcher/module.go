package app_launcher

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [app_launcher] configuration table.
type Settings struct {
	// Command is the launcher program spawned when the module is clicked.
	Command string `mapstructure:"command"`
}

// DefaultSettings returns the settings used when no [app_launcher] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("AppLauncher", &registry.RegisteredKind{
		SettingsKey: "app_launcher",
		NewSettings: func() any { return DefaultSettings() },
	})
}
