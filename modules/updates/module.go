package updates

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [updates] configuration table.
type Settings struct {
	// CheckCommand lists pending package updates, one per line.
	CheckCommand string `mapstructure:"check_command"`

	// UpdateCommand performs the actual system update.
	UpdateCommand string `mapstructure:"update_command"`
}

// DefaultSettings returns the settings used when no [updates] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Updates", &registry.RegisteredKind{
		SettingsKey: "updates",
		NewSettings: func() any { return DefaultSettings() },
	})
}
