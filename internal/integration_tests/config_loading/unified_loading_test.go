package integration_tests

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/barshell/internal/app"
	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/display/headless"
	"github.com/vk/barshell/internal/testutil"
	"github.com/vk/barshell/modules/clock"
	"github.com/vk/barshell/modules/system_info"
	"github.com/vk/barshell/modules/workspaces"
)

// TestLoad_UnifiedConfig drives one configuration file exercising every
// section through the full stack: global keys, appearance, layouts with
// groups, settings tables, a custom module, and two declared bars.
func TestLoad_UnifiedConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	configTOML := `
		log_level = "debug"
		position = "top"
		outputs = ["DP", "HDMI-A-1"]
		enable_esc_key = true

		[appearance]
		style = "solid"
		opacity = 0.9

		[appearance.font]
		family = "JetBrains Mono"
		size = 13

		[appearance.palette]
		background = "#11111b"

		[modules]
		left = ["Workspaces"]
		center = ["WindowTitle"]
		right = [["Clock", "Privacy"], "Weather"]

		[clock]
		format = "%H:%M"

		[workspaces]
		visibility_mode = "monitor_specific"
		enable_workspace_filling = true

		[system_info.cpu]
		warn_threshold = 50
		alert_threshold = 90

		[custom_modules.Weather]
		command = "weather --oneline"
		icon = "W"
		listen_command = "weatherd --follow"

		[[bar]]
		position = "top"

		[[bar]]
		position = "bottom"

		[bar.modules]
		left = ["Weather"]
	`
	path := testutil.WriteConfig(t, configTOML)
	provider := headless.New(
		display.Monitor{ID: "DP-1", Active: true},
		display.Monitor{ID: "HDMI-A-1"},
	)

	// --- Act ---
	h := testutil.StartBar(t, &app.Config{ConfigPath: path, NoWatch: true}, provider)

	// --- Assert ---
	// The decoded model carries every section of the file.
	bottom := config.PositionBottom
	top := config.PositionTop
	expected := config.DefaultModel()
	expected.Global.LogLevel = "debug"
	expected.Global.Outputs = config.OutputSelector{
		Kind:    config.SelectTargets,
		Targets: []string{"DP", "HDMI-A-1"},
	}
	expected.Global.EnableEscKey = true
	expected.Global.Appearance.Style = config.StyleSolid
	expected.Global.Appearance.Opacity = 0.9
	expected.Global.Appearance.Font = config.FontAppearance{Family: "JetBrains Mono", Size: 13}
	expected.Global.Appearance.Palette.Background = "#11111b"
	expected.Global.Modules = config.ModuleLayout{
		Left:   []config.ModuleEntry{{Single: "Workspaces"}},
		Center: []config.ModuleEntry{{Single: "WindowTitle"}},
		Right:  []config.ModuleEntry{{Group: []string{"Clock", "Privacy"}}, {Single: "Weather"}},
	}
	expected.Bars = []config.BarDefinition{
		{Position: &top},
		{Position: &bottom, Modules: &config.ModuleLayout{
			Left: []config.ModuleEntry{{Single: "Weather"}},
		}},
	}
	expected.ModuleSettings = map[string]map[string]any{
		"clock": {"format": "%H:%M"},
		"workspaces": {
			"visibility_mode":          "monitor_specific",
			"enable_workspace_filling": true,
		},
		"system_info": {
			"cpu": map[string]any{
				"warn_threshold":  int64(50),
				"alert_threshold": int64(90),
			},
		},
	}
	expected.CustomModules = map[string]config.CustomModule{
		"Weather": {
			Command:       "weather --oneline",
			Icon:          "W",
			ListenCommand: "weatherd --follow",
		},
	}
	if diff := cmp.Diff(expected, h.App.Model()); diff != "" {
		t.Errorf("Model mismatch (-want +got):\n%s", diff)
	}

	// Settings tables were bound over the compiled-in defaults: the cpu
	// thresholds changed, memory and temperature kept theirs.
	settings := h.App.Settings()
	require.Equal(t, &clock.Settings{Format: "%H:%M"}, settings["Clock"])
	require.Equal(t, &workspaces.Settings{
		VisibilityMode:         workspaces.VisibilityMonitorSpecific,
		EnableWorkspaceFilling: true,
	}, settings["Workspaces"])
	wantSystemInfo := system_info.DefaultSettings()
	wantSystemInfo.Cpu = system_info.Thresholds{WarnThreshold: 50, AlertThreshold: 90}
	require.Equal(t, wantSystemInfo, settings["SystemInfo"])

	// Two declared bars across two matched monitors give four instances.
	h.WaitForInstances(t, 4)
	perMonitor := map[string][]config.Position{}
	for _, inst := range h.Snapshot().Instances {
		perMonitor[inst.Monitor] = append(perMonitor[inst.Monitor], inst.Position)
	}
	for _, monitorID := range []string{"DP-1", "HDMI-A-1"} {
		require.Len(t, perMonitor[monitorID], 2, "monitor %s should carry both bars", monitorID)
		require.ElementsMatch(t, []config.Position{config.PositionTop, config.PositionBottom}, perMonitor[monitorID])
	}
}
