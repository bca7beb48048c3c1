package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/display/headless"
	"github.com/vk/barshell/internal/toml"
	"github.com/vk/barshell/modules/clock"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func rewriteConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// startApp assembles an app over a headless provider and runs its full
// lifecycle until test cleanup.
func startApp(t *testing.T, content string, monitors ...display.Monitor) (*App, *SafeBuffer) {
	t.Helper()

	path := writeConfig(t, content)
	provider := headless.New(monitors...)
	a, buf := SetupAppTest(t, &Config{ConfigPath: path, NoWatch: true}, provider)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return a, buf
}

func TestNewApp_DefaultsWithoutConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")
	a, buf := SetupAppTest(t, &Config{ConfigPath: missing, NoWatch: true}, nil)

	assert.Contains(t, buf.String(), "No configuration file found")

	if diff := cmp.Diff(config.DefaultModel(), a.Model()); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{
		"AppLauncher", "Clipboard", "Clock", "KeyboardLayout", "KeyboardSubmap",
		"MediaPlayer", "Privacy", "Settings", "SystemInfo", "Tray", "Updates",
		"WindowTitle", "Workspaces",
	}, a.Registry().Identifiers())

	// Every settings-bearing kind gets its compiled-in defaults.
	require.Len(t, a.Settings(), 10)
	assert.Equal(t, "%a %d %b %R", a.Settings()["Clock"].(*clock.Settings).Format)
}

func TestNewApp_FollowsConfigLogLevel(t *testing.T) {
	path := writeConfig(t, "log_level = \"error\"\n")

	t.Run("config file level applies when the flag is absent", func(t *testing.T) {
		a := NewApp(&SafeBuffer{}, &Config{ConfigPath: path}, toml.NewLoader(), headless.New())
		assert.Equal(t, slog.LevelError, a.level.Level())
	})

	t.Run("command line level wins", func(t *testing.T) {
		a := NewApp(&SafeBuffer{}, &Config{ConfigPath: path, LogLevel: "debug"}, toml.NewLoader(), headless.New())
		assert.Equal(t, slog.LevelDebug, a.level.Level())
	})
}

func TestNewApp_PanicsOnStartupMisconfiguration(t *testing.T) {
	newApp := func(content string) func() {
		path := writeConfig(t, content)
		return func() {
			NewApp(&SafeBuffer{}, &Config{ConfigPath: path}, toml.NewLoader(), headless.New())
		}
	}

	t.Run("malformed file", func(t *testing.T) {
		assert.Panics(t, newApp("position = \n"))
	})

	t.Run("unknown module in a layout", func(t *testing.T) {
		assert.Panics(t, newApp("[modules]\nleft = [\"Workspacs\"]\n"))
	})

	t.Run("settings table for a settings-less kind", func(t *testing.T) {
		assert.Panics(t, newApp("[tray]\nicon = \"T\"\n"))
	})

	t.Run("bar without a position", func(t *testing.T) {
		assert.Panics(t, newApp("[[bar]]\n[bar.modules]\nleft = [\"Clock\"]\n"))
	})
}

func TestReloadConfig_AppliesValidChanges(t *testing.T) {
	path := writeConfig(t, "position = \"top\"\n")
	a, buf := SetupAppTest(t, &Config{ConfigPath: path, NoWatch: true}, headless.New())

	require.Equal(t, config.PositionTop, a.Model().Global.Position)
	require.Equal(t, "%a %d %b %R", a.Settings()["Clock"].(*clock.Settings).Format)

	rewriteConfig(t, path, "position = \"bottom\"\n\n[clock]\nformat = \"%H:%M\"\n")
	a.ReloadConfig(context.Background())

	assert.Equal(t, config.PositionBottom, a.Model().Global.Position)
	assert.Equal(t, "%H:%M", a.Settings()["Clock"].(*clock.Settings).Format)
	assert.Contains(t, buf.String(), "Configuration reloaded.")
}

func TestReloadConfig_KeepsPreviousOnError(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"malformed file", "position = \n"},
		{"unknown module in a layout", "[modules]\ncenter = [\"Clokc\"]\n"},
		{"unclaimed settings table", "[clokc]\nformat = \"%R\"\n"},
		{"bar without a position", "[[bar]]\n[bar.modules]\nleft = [\"Clock\"]\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "position = \"bottom\"\n")
			a, buf := SetupAppTest(t, &Config{ConfigPath: path, NoWatch: true}, headless.New())

			rewriteConfig(t, path, tc.content)
			a.ReloadConfig(context.Background())

			assert.Equal(t, config.PositionBottom, a.Model().Global.Position, "previous configuration must stay live")
			assert.Contains(t, buf.String(), "keeping previous configuration")
		})
	}
}

func TestReloadConfig_WarnsOnLogLevelChange(t *testing.T) {
	path := writeConfig(t, "log_level = \"warn\"\n")
	a, buf := SetupAppTest(t, &Config{ConfigPath: path, NoWatch: true}, headless.New())

	rewriteConfig(t, path, "log_level = \"error\"\n")
	a.ReloadConfig(context.Background())

	assert.Contains(t, buf.String(), "restart is required")
	assert.Equal(t, "error", a.Model().Global.LogLevel, "the model carries the new value")
	assert.Equal(t, slog.LevelDebug, a.level.Level(), "the running level is untouched")
}

func TestRun_StatusReflectsLiveState(t *testing.T) {
	a, _ := startApp(t, "",
		display.Monitor{ID: "eDP-1", Active: true},
		display.Monitor{ID: "DP-3"},
	)

	require.Eventually(t, func() bool {
		return a.Store().Len() == 2
	}, waitFor, tick, "startup reconcile must create one bar per monitor")

	inst := a.Store().All()[0]
	a.Menus().OpenMenu(inst.Address)

	payload := a.buildStatus()
	require.Len(t, payload.Monitors, 2)
	require.Len(t, payload.Instances, 2)
	assert.Equal(t, 1, payload.OpenMenus)
	assert.False(t, payload.Grabbing, "esc handling defaults to off")
	for _, got := range payload.Instances {
		assert.Equal(t, got.ID == inst.Address.String(), got.MenuOpen, got.ID)
	}

	rec := httptest.NewRecorder()
	a.statusHandler(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded statusPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, payload, decoded)

	health := httptest.NewRecorder()
	a.healthHandler(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "OK\n", health.Body.String())
}

func TestRun_ReloadReachesTheEngine(t *testing.T) {
	a, _ := startApp(t, "", display.Monitor{ID: "eDP-1", Active: true})

	require.Eventually(t, func() bool {
		return a.Store().Len() == 1
	}, waitFor, tick)
	before := a.Store().All()[0]
	require.Equal(t, config.PositionTop, before.Spec().Position)

	rewriteConfig(t, a.appConfig.ConfigPath, "position = \"bottom\"\n")
	a.ReloadConfig(context.Background())

	require.Eventually(t, func() bool {
		all := a.Store().All()
		return len(all) == 1 && all[0].Spec().Position == config.PositionBottom
	}, waitFor, tick, "the engine must pick up the reloaded definition")
}
