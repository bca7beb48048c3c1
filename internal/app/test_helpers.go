package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/display/headless"
	"github.com/vk/barshell/internal/registry"
	"github.com/vk/barshell/internal/toml"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. A nil provider
// defaults to a fresh headless backend with no monitors.
func SetupAppTest(t *testing.T, appConfig *Config, provider display.Provider, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	if appConfig.Backend == "" {
		appConfig.Backend = BackendHeadless
	}
	if provider == nil {
		provider = headless.New()
	}

	testApp := NewApp(logBuffer, appConfig, toml.NewLoader(), provider, modules...)

	t.Cleanup(func() {
		if os.Getenv("BARSHELL_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
