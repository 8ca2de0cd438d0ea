package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/driver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	httpServer *http.Server

	mu     sync.Mutex
	driver *driver.Driver
	latest *driver.Snapshot
}

// NewApp is the constructor for the main application. Grids are written to
// outW and logs to logW; each App gets its own logger.
func NewApp(outW, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		ctx:    ctxlog.WithLogger(context.Background(), logger),
		outW:   outW,
		logger: logger,
		config: config,
	}
}

// Emit records the latest generation for the status endpoint. It is
// registered as a driver sink.
func (a *App) Emit(_ context.Context, snap driver.Snapshot) error {
	a.mu.Lock()
	a.latest = &snap
	a.mu.Unlock()
	return nil
}

// status returns the running driver and the latest generation, if any.
func (a *App) status() (*driver.Driver, *driver.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.driver, a.latest
}

func (a *App) setDriver(d *driver.Driver) {
	a.mu.Lock()
	a.driver = d
	a.mu.Unlock()
}
