package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/barshell/internal/app"
	"github.com/vk/barshell/internal/testutil"
	"github.com/vk/barshell/modules/clock"
	"github.com/vk/barshell/modules/keyboard_layout"
	"github.com/vk/barshell/modules/media_player"
)

// TestLoad_PartialSettingsKeepDefaults validates that a file declaring a
// single settings table leaves every other kind on its compiled-in defaults.
func TestLoad_PartialSettingsKeepDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := testutil.WriteConfig(t, `
		[clock]
		format = "%R"
	`)

	// --- Act ---
	h := testutil.StartBar(t, &app.Config{ConfigPath: path, NoWatch: true}, nil)

	// --- Assert ---
	settings := h.App.Settings()
	require.Len(t, settings, 10, "every settings-bearing kind should be bound")
	require.Equal(t, &clock.Settings{Format: "%R"}, settings["Clock"])
	require.Equal(t, media_player.DefaultSettings(), settings["MediaPlayer"])
	require.Equal(t, keyboard_layout.DefaultSettings(), settings["KeyboardLayout"])
}

// TestLoad_SettingsFailures validates that every way a settings table can be
// wrong is rejected at startup with a message naming the offending table.
func TestLoad_SettingsFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		configTOML string
		wantErr    []string
	}{
		{
			name: "unclaimed settings table",
			configTOML: `
				[clokc]
				format = "%R"
			`,
			wantErr: []string{"[clokc]: no module kind accepts this settings table"},
		},
		{
			name: "settings for a kind without settings",
			configTOML: `
				[tray]
				icon = "T"
			`,
			wantErr: []string{"[tray]: module kind 'Tray' accepts no settings"},
		},
		{
			name: "misspelled key inside a known table",
			configTOML: `
				[clock]
				formt = "%R"
			`,
			wantErr: []string{"clock", "invalid module settings", "formt"},
		},
		{
			name: "enum value outside its domain",
			configTOML: `
				[workspaces]
				visibility_mode = "everything"
			`,
			wantErr: []string{`visibility_mode must be 'all' or 'monitor_specific', got "everything"`},
		},
		{
			name: "value of the wrong type",
			configTOML: `
				[media_player]
				max_title_length = "long"
			`,
			wantErr: []string{"media_player", "invalid module settings"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			path := testutil.WriteConfig(t, tc.configTOML)

			// --- Act ---
			err := testutil.StartupError(t, &app.Config{ConfigPath: path, NoWatch: true})

			// --- Assert ---
			require.Error(t, err, "startup should reject the configuration")
			for _, want := range tc.wantErr {
				require.Contains(t, err.Error(), want)
			}
		})
	}
}
