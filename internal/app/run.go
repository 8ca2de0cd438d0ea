package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/driver"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/pattern"
	"github.com/specialistvlad/gridlife/internal/publish"
)

// ErrVerifyMismatch is returned by Run when -verify finds a different grid
// than the pattern expects.
var ErrVerifyMismatch = errors.New("pattern did not reach its expected grid")

// Run executes the main application logic based on the provided configuration.
// In unbounded mode cancelling ctx is the normal way to stop and Run returns nil.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if a.config.Verify {
		return a.verify(ctx)
	}

	start, generations, err := a.initialGrid(ctx)
	if err != nil {
		return err
	}

	a.echo(start, generations)

	sinks := []driver.Sink{driver.NewTextSink(a.outW), a}
	if a.config.PublishURL != "" {
		pub, err := publish.Dial(ctx, publish.Config{URL: a.config.PublishURL, Event: a.config.PublishEvent})
		if err != nil {
			return fmt.Errorf("failed to start publisher: %w", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	// -interval only paces unbounded runs; bounded output is printed at once.
	interval := a.config.Interval
	if generations > 0 {
		interval = 0
	}
	d, err := driver.New(driver.Config{Generations: generations, Interval: interval}, sinks...)
	if err != nil {
		return err
	}
	a.setDriver(d)

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		defer a.closeHealthCheckServer()
	}

	a.logger.Info("Simulation starting.", "width", start.Width(), "height", start.Height(), "generations", generations, "bounded", generations > 0)
	final, err := d.Run(ctx, start)
	if err != nil {
		if generations == 0 && errors.Is(err, context.Canceled) {
			a.logger.Info("Simulation interrupted.", "generation", d.Generation(), "population", final.Population())
			return nil
		}
		return fmt.Errorf("simulation failed: %w", err)
	}

	a.logger.Info("Simulation finished.", "generations", d.Generation(), "population", final.Population())
	return nil
}

// initialGrid builds the starting grid and resolves the generation count.
// A count given on the command line overrides the pattern's.
func (a *App) initialGrid(ctx context.Context) (grid.Grid, int, error) {
	if a.config.PatternPath == "" {
		a.logger.Debug("Using grid from arguments.", "rows", a.config.RowTexts)
		g, err := grid.New(a.config.Width, a.config.Height, a.config.Rows)
		return g, a.config.Generations, err
	}

	p, err := a.loadPattern(ctx)
	if err != nil {
		return grid.Grid{}, 0, err
	}
	g, err := p.Grid()
	if err != nil {
		return grid.Grid{}, 0, fmt.Errorf("%s: %w", p.Source, err)
	}

	generations := a.config.Generations
	if generations == 0 {
		generations = p.Generations
	}
	a.logger.Debug("Pattern selected.", "pattern", p.Name, "source", p.Source, "generations", generations)
	return g, generations, nil
}

func (a *App) loadPattern(ctx context.Context) (pattern.Pattern, error) {
	lib, err := pattern.Load(ctx, a.config.PatternPath)
	if err != nil {
		return pattern.Pattern{}, fmt.Errorf("failed to load patterns: %w", err)
	}
	a.logger.Debug("Patterns loaded.", "count", lib.Len(), "names", lib.Names())
	return lib.Find(a.config.PatternName)
}

// verify runs the selected pattern to its expected grid and prints both
// grids on a mismatch.
func (a *App) verify(ctx context.Context) error {
	p, err := a.loadPattern(ctx)
	if err != nil {
		return err
	}
	if a.config.Generations > 0 {
		p.Generations = a.config.Generations
	}

	v, err := pattern.Verify(p)
	if err != nil {
		return err
	}
	if v.Match() {
		fmt.Fprintf(a.outW, "%s: ok after %d generations\n", p.Name, p.Generations)
		return nil
	}

	fmt.Fprintf(a.outW, "%s: mismatch after %d generations\nwant:\n%s\ngot:\n%s", p.Name, p.Generations, grid.Render(v.Want), grid.Render(v.Got))
	return fmt.Errorf("%w: %s", ErrVerifyMismatch, p.Name)
}

// echo prints the parsed input the way the simulation was configured.
func (a *App) echo(g grid.Grid, generations int) {
	fmt.Fprintf(a.outW, "xLen: %d, yLen: %d\n", g.Width(), g.Height())
	if generations > 0 {
		fmt.Fprintf(a.outW, "Num generations: %d\n", generations)
	}
	for y := 0; y < g.Height(); y++ {
		fmt.Fprintf(a.outW, "row input: %d\n", g.Row(y))
	}
}
