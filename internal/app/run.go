package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/watch"
)

// Run drives the application until the context is cancelled: it starts the
// display provider, the menu controller and the engine, serves the optional
// status endpoint, and feeds configuration reloads from the file watcher and
// SIGHUP into the engine.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if starter, ok := a.provider.(display.Starter); ok {
		if err := starter.Start(runCtx); err != nil {
			return fmt.Errorf("display provider failed to start: %w", err)
		}
		a.logger.Debug("Display provider started.")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.menus.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		a.engine.Run(runCtx)
	}()

	if a.appConfig.StatusPort > 0 {
		a.startStatusServer(a.appConfig.StatusPort)
	}

	if !a.appConfig.NoWatch {
		watcher, err := watch.New(a.logger, a.appConfig.ConfigPath, func() {
			a.ReloadConfig(runCtx)
		})
		if err != nil {
			a.logger.Warn("Configuration watcher unavailable, hot reload on file change disabled.", "error", err)
		} else if err := watcher.Start(runCtx); err != nil {
			a.logger.Warn("Configuration watcher failed to start, hot reload on file change disabled.", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	a.logger.Info("Bar engine running.", "config", a.appConfig.ConfigPath, "backend", a.appConfig.Backend)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Shutdown requested.")
			cancel()
			wg.Wait()
			err := a.closeStatusServer()
			a.logger.Debug("App.Run method finished.")
			return err
		case <-hup:
			a.logger.Info("SIGHUP received, reloading configuration.")
			a.ReloadConfig(runCtx)
		}
	}
}

// ReloadConfig re-reads the configuration file and applies it. Any failure
// leaves the previous configuration live: a broken edit must never take
// down running bars.
func (a *App) ReloadConfig(ctx context.Context) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, converter, err := a.loader.Load(ctx, a.appConfig.ConfigPath)
	if err != nil {
		a.logger.Error("Configuration reload failed, keeping previous configuration.", "error", err)
		return
	}
	if err := a.registry.ValidateLayouts(ctx, model); err != nil {
		a.logger.Error("Configuration reload failed, keeping previous configuration.", "error", err)
		return
	}
	settings, err := a.registry.DecodeSettings(ctx, converter, model)
	if err != nil {
		a.logger.Error("Configuration reload failed, keeping previous configuration.", "error", err)
		return
	}
	// Dry-run the bar merge so a rejected model never reaches the engine.
	if _, err := config.MergeBars(&model.Global, model.Bars); err != nil {
		a.logger.Error("Configuration reload failed, keeping previous configuration.", "error", err)
		return
	}

	a.mu.Lock()
	previous := a.config
	a.config = model
	a.converter = converter
	a.settings = settings
	a.mu.Unlock()

	if model.Global.LogLevel != previous.Global.LogLevel {
		a.logger.Warn("log_level changed; a restart is required for the new level to take effect.",
			"running", previous.Global.LogLevel, "configured", model.Global.LogLevel)
	}

	a.engine.Reload(model)
	a.logger.Info("Configuration reloaded.", "path", a.appConfig.ConfigPath)
}
