package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/display/headless"
	"github.com/vk/barshell/internal/display/hypr"
	"github.com/vk/barshell/internal/engine"
	"github.com/vk/barshell/internal/instancestore"
	"github.com/vk/barshell/internal/menu"
	"github.com/vk/barshell/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	level     *slog.LevelVar
	appConfig *Config
	loader    config.Loader
	registry  *registry.Registry
	provider  display.Provider
	store     *instancestore.Store
	menus     *menu.Controller
	engine    *engine.Engine

	httpServer *http.Server

	// reloadMu serializes configuration reloads; mu guards the live
	// configuration state swapped by a successful reload.
	reloadMu  sync.Mutex
	mu        sync.Mutex
	config    *config.Model
	converter config.Converter
	settings  map[string]any
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup misconfiguration panics; the entrypoint recovers for a clean exit
// message. A nil provider is constructed from appConfig.Backend.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, provider display.Provider, modules ...registry.Module) *App {
	logger, level := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// The command line left the log level to the config file.
	if appConfig.LogLevel == "" {
		level.Set(parseLevel(cfgModel.Global.LogLevel))
	}

	// Create and populate the registry with the builtin module kinds.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All module kinds registered.", "count", len(modules))

	// Validate the integrity of the registry.
	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error (a broken module package), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	// Every layout reference must name a registered kind or a declared
	// custom module.
	if err := reg.ValidateLayouts(ctx, cfgModel); err != nil {
		panic(fmt.Errorf("failed to validate module layouts: %w", err))
	}

	// Bind the per-module settings tables to their registered prototypes.
	settings, err := reg.DecodeSettings(ctx, converter, cfgModel)
	if err != nil {
		panic(fmt.Errorf("failed to decode module settings: %w", err))
	}
	logger.Debug("Module settings decoded.", "kinds", len(settings))

	if provider == nil {
		provider, err = newProvider(appConfig.Backend, logger)
		if err != nil {
			panic(fmt.Errorf("failed to initialize display backend: %w", err))
		}
	}

	store := instancestore.New()
	menus := menu.NewController(logger, provider, cfgModel.Global.EnableEscKey)
	eng, err := engine.New(logger, provider, store, menus, cfgModel)
	if err != nil {
		panic(fmt.Errorf("failed to assemble the bar engine: %w", err))
	}

	return &App{
		outW:      outW,
		logger:    logger,
		level:     level,
		appConfig: appConfig,
		loader:    loader,
		registry:  reg,
		provider:  provider,
		store:     store,
		menus:     menus,
		engine:    eng,
		config:    cfgModel,
		converter: converter,
		settings:  settings,
	}
}

// newProvider constructs the display backend named on the command line. The
// empty string maps to headless so library and test callers get a backend
// that works everywhere.
func newProvider(backend string, logger *slog.Logger) (display.Provider, error) {
	switch backend {
	case "", BackendHeadless:
		return headless.New(), nil
	case BackendHypr:
		return hypr.New(logger)
	default:
		return nil, fmt.Errorf("unknown display backend %q", backend)
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Engine returns the reconciliation engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Menus returns the menu controller. This is primarily for testing.
func (a *App) Menus() *menu.Controller {
	return a.menus
}

// Store returns the live instance store. This is primarily for testing.
func (a *App) Store() *instancestore.Store {
	return a.store
}

// Model returns the live configuration model.
func (a *App) Model() *config.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// Settings returns the decoded module settings, keyed by kind identifier.
func (a *App) Settings() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}
