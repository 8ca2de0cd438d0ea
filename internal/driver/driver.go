package driver

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/life"
)

// DefaultInterval is the pause between generations in unbounded mode when
// Config.Interval is not set.
const DefaultInterval = 500 * time.Millisecond

// ErrInvalidGenerations is returned by New for a negative generation count.
var ErrInvalidGenerations = errors.New("number of generations must not be negative")

// State is the lifecycle position of a Driver.
type State int32

const (
	StateInitial State = iota
	StateStepping
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateStepping:
		return "stepping"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config controls how long and how fast a Driver runs.
type Config struct {
	// Generations is the number of steps to run. Zero runs until the context
	// is cancelled.
	Generations int
	// Interval is the pause after each emitted generation. In unbounded mode
	// it defaults to DefaultInterval.
	Interval time.Duration
}

// Bounded reports whether the run stops on its own.
func (c Config) Bounded() bool {
	return c.Generations > 0
}

// Driver owns the live grid for the duration of a run.
type Driver struct {
	cfg   Config
	sinks []Sink

	state      atomic.Int32
	generation atomic.Int64
	population atomic.Int64
}

// New creates a Driver that emits every generation to sinks, in order.
func New(cfg Config, sinks ...Sink) (*Driver, error) {
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGenerations, cfg.Generations)
	}
	if !cfg.Bounded() && cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Driver{cfg: cfg, sinks: sinks}, nil
}

// State returns the current lifecycle state. Safe for concurrent use.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Generation returns the number of steps applied so far. Safe for concurrent use.
func (d *Driver) Generation() int {
	return int(d.generation.Load())
}

// Population returns the live cell count of the last emitted generation.
// Safe for concurrent use.
func (d *Driver) Population() int {
	return int(d.population.Load())
}

// Run emits g as generation 0 and then steps it until the configured number of
// generations is reached or ctx is cancelled. It returns the last grid that
// was emitted. Cancellation is reported as ctx.Err(); in unbounded mode that
// is the only way Run returns without a sink error.
func (d *Driver) Run(ctx context.Context, g grid.Grid) (grid.Grid, error) {
	logger := ctxlog.FromContext(ctx).With("width", g.Width(), "height", g.Height())
	d.setState(ctx, StateInitial)
	d.generation.Store(0)

	if err := d.emit(ctx, Snapshot{Generation: 0, Grid: g}); err != nil {
		d.setState(ctx, StateDone)
		return g, err
	}

	d.setState(ctx, StateStepping)
	defer d.setState(ctx, StateDone)

	for n := 1; !d.cfg.Bounded() || n <= d.cfg.Generations; n++ {
		if d.cfg.Interval > 0 {
			if err := pause(ctx, d.cfg.Interval); err != nil {
				logger.Debug("Run cancelled while paused.", "generation", n-1)
				return g, err
			}
		} else if err := ctx.Err(); err != nil {
			logger.Debug("Run cancelled.", "generation", n-1)
			return g, err
		}

		g = life.Step(g)
		d.generation.Store(int64(n))

		if err := d.emit(ctx, Snapshot{Generation: n, Grid: g}); err != nil {
			return g, err
		}
	}

	logger.Debug("Run finished.", "generations", d.cfg.Generations, "population", g.Population())
	return g, nil
}

func (d *Driver) emit(ctx context.Context, snap Snapshot) error {
	d.population.Store(int64(snap.Grid.Population()))
	for _, sink := range d.sinks {
		if err := sink.Emit(ctx, snap); err != nil {
			return fmt.Errorf("emitting generation %d: %w", snap.Generation, err)
		}
	}
	return nil
}

func (d *Driver) setState(ctx context.Context, s State) {
	prev := State(d.state.Swap(int32(s)))
	if prev != s {
		ctxlog.FromContext(ctx).Debug("Driver state changed.", "from", prev, "to", s)
	}
}

// pause waits for interval or until ctx is done, whichever comes first.
func pause(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
