package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/gridlife/internal/grid"
)

// Snapshot is one emitted generation.
type Snapshot struct {
	Generation int
	Grid       grid.Grid
}

// Sink receives every generation produced by a Driver.
type Sink interface {
	Emit(ctx context.Context, snap Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap Snapshot) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

// TextSink writes each generation as rendered by grid.Render followed by a
// blank line.
type TextSink struct {
	w io.Writer
}

// NewTextSink returns a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Emit implements Sink.
func (s *TextSink) Emit(_ context.Context, snap Snapshot) error {
	if _, err := fmt.Fprintf(s.w, "%s\n", grid.Render(snap.Grid)); err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}
	return nil
}
