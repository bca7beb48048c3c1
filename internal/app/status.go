package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/engine"
)

// statusInstance is one live bar instance in the /status payload.
type statusInstance struct {
	ID       string          `json:"id"`
	Monitor  string          `json:"monitor"`
	Position config.Position `json:"position"`
	MenuOpen bool            `json:"menu_open"`
}

// statusPayload is the /status response document.
type statusPayload struct {
	Monitors  []engine.MonitorStatus `json:"monitors"`
	Instances []statusInstance       `json:"instances"`
	OpenMenus int                    `json:"open_menus"`
	Grabbing  bool                   `json:"grabbing"`
}

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler serves the live engine and menu state as JSON.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.buildStatus()); err != nil {
		a.logger.Error("Status encoding failed.", "error", err)
	}
}

// buildStatus assembles the document the status endpoint serves.
func (a *App) buildStatus() statusPayload {
	engSnap := a.engine.Snapshot()
	menuSnap := a.menus.Snapshot()

	open := make(map[string]bool, len(menuSnap.OpenAddresses))
	for _, addr := range menuSnap.OpenAddresses {
		open[addr] = true
	}

	instances := make([]statusInstance, 0, len(engSnap.Instances))
	for _, inst := range engSnap.Instances {
		instances = append(instances, statusInstance{
			ID:       inst.ID,
			Monitor:  inst.Monitor,
			Position: inst.Position,
			MenuOpen: open[inst.ID],
		})
	}

	return statusPayload{
		Monitors:  engSnap.Monitors,
		Instances: instances,
		OpenMenus: menuSnap.OpenCount,
		Grabbing:  menuSnap.Grabbing,
	}
}

// startStatusServer initializes and runs the status HTTP server.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/status", a.statusHandler)

	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		a.logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown; only
		// other errors are real failures.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

// closeStatusServer shuts the status server down gracefully.
func (a *App) closeStatusServer() error {
	a.logger.Debug("Closing status server...")

	if a.httpServer == nil {
		a.logger.Debug("Status server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down status server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Status server shutdown failed", "error", err)
		return err
	}

	a.logger.Debug("Status server shut down gracefully.")
	return nil
}
