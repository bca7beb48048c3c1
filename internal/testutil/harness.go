// Package testutil provides the shared harness for system tests: helpers to
// write configuration files, start a fully assembled app against a headless
// display backend, and wait for the engine goroutine to converge.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/barshell/internal/app"
	"github.com/vk/barshell/internal/display/headless"
	"github.com/vk/barshell/internal/registry"
)

// Polling bounds for observing the engine goroutine from test code.
const (
	WaitFor = 5 * time.Second
	Tick    = 10 * time.Millisecond
)

// WriteConfig writes contents to a config.toml inside a fresh temporary
// directory and returns the file path.
func WriteConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// RewriteConfig replaces the file at path, simulating the user editing the
// configuration while the daemon runs.
func RewriteConfig(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// Harness is a running application wired to a headless display backend.
// Tests drive the backend (hotplug, focus, key events) and observe the app
// through its public accessors.
type Harness struct {
	App      *app.App
	Provider *headless.Provider
	Logs     *app.SafeBuffer
}

// StartBar assembles the app and runs it until the test ends. A nil
// appConfig runs without a configuration file and without the file watcher;
// a nil provider starts a headless backend with no monitors. The run
// goroutine must exit cleanly at cleanup or the test fails.
func StartBar(t *testing.T, appConfig *app.Config, provider *headless.Provider, modules ...registry.Module) *Harness {
	t.Helper()

	if appConfig == nil {
		appConfig = &app.Config{
			ConfigPath: filepath.Join(t.TempDir(), "absent.toml"),
			NoWatch:    true,
		}
	}
	if provider == nil {
		provider = headless.New()
	}

	barApp, logs := app.SetupAppTest(t, appConfig, provider, modules...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- barApp.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done, "app.Run() should shut down cleanly")
	})

	return &Harness{App: barApp, Provider: provider, Logs: logs}
}

// Reload runs the SIGHUP code path synchronously.
func (h *Harness) Reload() {
	h.App.ReloadConfig(context.Background())
}

// StartupError assembles the app and reports a recovered startup panic as
// an error, mirroring how the binary's entrypoint surfaces configuration
// mistakes. A nil return means startup succeeded.
func StartupError(t *testing.T, appConfig *app.Config) (err error) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()
	app.SetupAppTest(t, appConfig, nil)
	return nil
}
