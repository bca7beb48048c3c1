package settings

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings defines the [settings] configuration table. Each field names a
// command the settings panel shells out to for the matching action.
type Settings struct {
	LockCommand           string `mapstructure:"lock_command"`
	AudioSinksMoreCommand string `mapstructure:"audio_sinks_more_command"`
	WifiMoreCommand       string `mapstructure:"wifi_more_command"`
	VpnMoreCommand        string `mapstructure:"vpn_more_command"`
	BluetoothMoreCommand  string `mapstructure:"bluetooth_more_command"`
}

// DefaultSettings returns the settings used when no [settings] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("Settings", &registry.RegisteredKind{
		SettingsKey: "settings",
		NewSettings: func() any { return DefaultSettings() },
	})
}
