// Package pattern loads named starting grids from HCL or YAML files.
//
// A pattern declares its width, its rows as binary strings (high bit first)
// and optionally a generation count with the grid expected after that many
// generations:
//
//	pattern "blinker" {
//	  width       = 5
//	  generations = 1
//	  rows        = ["00000", "00000", "01110", "00000", "00000"]
//	  expect      = ["00000", "00100", "00100", "00100", "00000"]
//	}
package pattern

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/life"
)

var (
	// ErrNotFound is returned when a named pattern is not in the library.
	ErrNotFound = errors.New("pattern not found")
	// ErrNoExpectation is returned by Verify for a pattern without expect rows.
	ErrNoExpectation = errors.New("pattern has no expected result")
)

// Pattern is a named starting grid.
type Pattern struct {
	Name string `yaml:"name"`
	// Source is the file the pattern was read from.
	Source      string   `yaml:"-"`
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height,omitempty"`
	Generations int      `yaml:"generations,omitempty"`
	Rows        []string `yaml:"rows"`
	Expect      []string `yaml:"expect,omitempty"`
}

// Grid decodes the pattern's rows. A zero Height means len(Rows).
func (p Pattern) Grid() (grid.Grid, error) {
	return p.decode(p.Rows, "rows")
}

// ExpectedGrid decodes the pattern's expect rows.
func (p Pattern) ExpectedGrid() (grid.Grid, error) {
	if len(p.Expect) == 0 {
		return grid.Grid{}, fmt.Errorf("pattern %q: %w", p.Name, ErrNoExpectation)
	}
	return p.decode(p.Expect, "expect")
}

func (p Pattern) decode(texts []string, field string) (grid.Grid, error) {
	height := p.Height
	if height == 0 {
		height = len(texts)
	}
	if err := grid.CheckDimensions(p.Width, height); err != nil {
		return grid.Grid{}, fmt.Errorf("pattern %q: %w", p.Name, err)
	}

	rows, err := grid.DecodeRows(texts, p.Width)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("pattern %q %s: %w", p.Name, field, err)
	}
	g, err := grid.New(p.Width, height, rows)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("pattern %q %s: %w", p.Name, field, err)
	}
	return g, nil
}

// FromGrid builds a pattern describing g.
func FromGrid(name string, g grid.Grid) Pattern {
	return Pattern{
		Name:   name,
		Width:  g.Width(),
		Height: g.Height(),
		Rows:   grid.EncodeRows(g),
	}
}

// Verification is the outcome of running a pattern to its expected result.
type Verification struct {
	Pattern Pattern
	Got     grid.Grid
	Want    grid.Grid
}

// Match reports whether the simulated grid equals the expected one.
func (v Verification) Match() bool {
	return v.Got.Equal(v.Want)
}

// Verify runs the pattern for its declared generations and compares the
// result with its expect rows.
func Verify(p Pattern) (Verification, error) {
	start, err := p.Grid()
	if err != nil {
		return Verification{}, err
	}
	want, err := p.ExpectedGrid()
	if err != nil {
		return Verification{}, err
	}

	return Verification{
		Pattern: p,
		Got:     life.Run(start, p.Generations),
		Want:    want,
	}, nil
}
