package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/driver"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/pattern"
)

// statusResponse is the JSON body of /status.
type statusResponse struct {
	State      string   `json:"state"`
	Generation int      `json:"generation"`
	Population int      `json:"population"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Grid       []string `json:"grid,omitempty"`
}

// healthHandler logs the request and reports the process as alive.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statusHandler reports the driver state and the latest generation. With
// ?format=yaml the latest grid is returned as a loadable pattern file.
func (app *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	d, snap := app.status()

	if r.URL.Query().Get("format") == "yaml" {
		if snap == nil {
			http.Error(w, "no generation yet", http.StatusServiceUnavailable)
			return
		}
		out, err := pattern.GridYAML(fmt.Sprintf("generation-%d", snap.Generation), snap.Grid)
		if err != nil {
			logger.Error("Status YAML encoding failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(out)
		return
	}

	resp := statusResponse{State: driver.StateInitial.String()}
	if d != nil {
		resp.State = d.State().String()
		resp.Generation = d.Generation()
		resp.Population = d.Population()
	}
	if snap != nil {
		resp.Width = snap.Grid.Width()
		resp.Height = snap.Grid.Height()
		resp.Grid = grid.RenderLines(snap.Grid)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Status response failed", "error", err)
	}
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Warn("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/status", app.statusHandler)

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	// The run context is usually already cancelled here, so shutdown gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
