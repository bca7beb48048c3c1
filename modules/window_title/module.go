package window_title

import (
	"fmt"

	"github.com/vk/barshell/internal/registry"
)

// Display modes for the focused window.
const (
	ModeTitle = "title"
	ModeClass = "class"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [window_title] configuration table.
type Settings struct {
	// Mode selects whether the window title or the application class is
	// displayed.
	Mode string `mapstructure:"mode"`

	// TruncateTitleAfterLength cuts the displayed text past this many
	// characters.
	TruncateTitleAfterLength int `mapstructure:"truncate_title_after_length"`
}

// DefaultSettings returns the settings used when no [window_title] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{
		Mode:                     ModeTitle,
		TruncateTitleAfterLength: 150,
	}
}

// Validate checks the decoded settings values.
func (s *Settings) Validate() error {
	switch s.Mode {
	case ModeTitle, ModeClass:
	default:
		return fmt.Errorf("mode must be '%s' or '%s', got %q", ModeTitle, ModeClass, s.Mode)
	}
	if s.TruncateTitleAfterLength < 0 {
		return fmt.Errorf("truncate_title_after_length must not be negative, got %d", s.TruncateTitleAfterLength)
	}
	return nil
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("WindowTitle", &registry.RegisteredKind{
		SettingsKey: "window_title",
		NewSettings: func() any { return DefaultSettings() },
	})
}
