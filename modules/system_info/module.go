package system_info

import (
	"github.com/vk/barshell/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Thresholds holds a warning and an alert percentage for one indicator.
type Thresholds struct {
	WarnThreshold  int `mapstructure:"warn_threshold"`
	AlertThreshold int `mapstructure:"alert_threshold"`
}

// TemperatureSettings defines the [system_info.temperature] table.
type TemperatureSettings struct {
	// Sensor names the hwmon sensor the temperature is read from.
	Sensor         string `mapstructure:"sensor"`
	WarnThreshold  int    `mapstructure:"warn_threshold"`
	AlertThreshold int    `mapstructure:"alert_threshold"`
}

// Settings defines the [system_info] configuration table.
type Settings struct {
	Cpu         Thresholds          `mapstructure:"cpu"`
	Memory      Thresholds          `mapstructure:"memory"`
	Temperature TemperatureSettings `mapstructure:"temperature"`
}

// DefaultSettings returns the settings used when no [system_info] table is
// present.
func DefaultSettings() *Settings {
	return &Settings{
		Cpu:    Thresholds{WarnThreshold: 60, AlertThreshold: 80},
		Memory: Thresholds{WarnThreshold: 70, AlertThreshold: 85},
		Temperature: TemperatureSettings{
			Sensor:         "k10temp Tctl",
			WarnThreshold:  60,
			AlertThreshold: 80,
		},
	}
}

// Register registers the module kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind("SystemInfo", &registry.RegisteredKind{
		SettingsKey: "system_info",
		NewSettings: func() any { return DefaultSettings() },
	})
}
