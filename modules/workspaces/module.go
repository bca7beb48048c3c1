package workspaces

import (
	"fmt"

	"github.com/vk/barshell/internal/registry"
)

// Visibility modes for workspace indicators.
const (
	VisibilityAll             = "all"
	VisibilityMonitorSpecific = "monitor_specific"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [workspaces] configuration table.
type Settings struct {
	// VisibilityMode selects whether every workspace is shown on every
	// bar or only the workspaces of the bar's own monitor.
	VisibilityMode string `mapstructure:"visibility_mode"`

	// EnableWorkspaceFilling renders placeholder indicators for workspace
	// numbers below the highest occupied one.
	EnableWorkspaceFilling bool `mapstructure:"enable_workspace_filling"`
}

// DefaultSettings returns the settings used when no [workspaces] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{
		VisibilityMode: VisibilityAll,
	}
}

// Validate checks the decoded settings values.
func (s *Settings) Validate() error {
	switch s.VisibilityMode {
	case VisibilityAll, VisibilityMonitorSpecific:
		return nil
	}
	return fmt.Errorf("visibility_mode must be '%s' or '%s', got %q", VisibilityAll, VisibilityMonitorSpecific, s.VisibilityMode)
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Workspaces", &registry.RegisteredKind{
		SettingsKey: "workspaces",
		NewSettings: func() any { return DefaultSettings() },
	})
}
