package media_player

import (
	"fmt"

	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [media_player] configuration table.
type Settings struct {
	// MaxTitleLength cuts the displayed track title past this many
	// characters.
	MaxTitleLength int `mapstructure:"max_title_length"`
}

// DefaultSettings returns the settings used when no [media_player] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{
		MaxTitleLength: 100,
	}
}

// Validate checks the decoded settings values.
func (s *Settings) Validate() error {
	if s.MaxTitleLength < 1 {
		return fmt.Errorf("max_title_length must be positive, got %d", s.MaxTitleLength)
	}
	return nil
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("MediaPlayer", &registry.RegisteredKind{
		SettingsKey: "media_player",
		NewSettings: func() any { return DefaultSettings() },
	})
}
