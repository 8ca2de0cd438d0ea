package grid

import (
	"errors"
	"fmt"
	"math/bits"
)

// Row is one horizontal line of cells, one bit per column.
type Row = uint64

// MaxWidth is the number of columns a Row can hold.
const MaxWidth = 64

var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("grid dimensions must be greater than 0")
	// ErrDimensionOverflow is returned when width exceeds MaxWidth.
	ErrDimensionOverflow = errors.New("grid width exceeds row capacity")
	// ErrRowCount is returned when the number of rows does not match the height.
	ErrRowCount = errors.New("row count does not match grid height")
	// ErrInvalidRowEncoding is returned for row text that is not a binary numeral
	// fitting in the grid width.
	ErrInvalidRowEncoding = errors.New("invalid row encoding")
)

// Grid is an immutable board of Width x Height cells.
type Grid struct {
	width  int
	height int
	rows   []Row
}

// New validates the dimensions and rows and returns a Grid owning a private
// copy of rows.
func New(width, height int, rows []Row) (Grid, error) {
	if err := CheckDimensions(width, height); err != nil {
		return Grid{}, err
	}
	if len(rows) != height {
		return Grid{}, fmt.Errorf("%w: got %d rows for height %d", ErrRowCount, len(rows), height)
	}

	mask := widthMask(width)
	for y, row := range rows {
		if row&^mask != 0 {
			return Grid{}, fmt.Errorf("%w: row %d has cells beyond column %d", ErrInvalidRowEncoding, y, width-1)
		}
	}

	owned := make([]Row, height)
	copy(owned, rows)
	return Grid{width: width, height: height, rows: owned}, nil
}

// Empty returns an all-dead grid.
func Empty(width, height int) (Grid, error) {
	if err := CheckDimensions(width, height); err != nil {
		return Grid{}, err
	}
	return Grid{width: width, height: height, rows: make([]Row, height)}, nil
}

// FromRows builds a grid without validation. The caller hands over ownership
// of rows and guarantees they fit width; it exists for producers such as the
// life engine that construct rows from an already valid grid.
func FromRows(width int, rows []Row) Grid {
	return Grid{width: width, height: len(rows), rows: rows}
}

// CheckDimensions reports whether a width x height grid can be represented.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d height=%d", ErrInvalidDimensions, width, height)
	}
	if width > MaxWidth {
		return fmt.Errorf("%w: width %d, maximum is %d", ErrDimensionOverflow, width, MaxWidth)
	}
	return nil
}

func (g Grid) Width() int  { return g.width }
func (g Grid) Height() int { return g.height }

// Row returns the packed row y. It panics if y is out of range.
func (g Grid) Row(y int) Row {
	return g.rows[y]
}

// Rows returns a copy of all rows.
func (g Grid) Rows() []Row {
	out := make([]Row, len(g.rows))
	copy(out, g.rows)
	return out
}

// Alive reports whether the cell at (x, y) is live. Coordinates outside the
// grid are dead.
func (g Grid) Alive(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return (g.rows[y]>>uint(x))&1 == 1
}

// Population returns the number of live cells.
func (g Grid) Population() int {
	n := 0
	for _, row := range g.rows {
		n += bits.OnesCount64(row)
	}
	return n
}

// Equal reports whether both grids have the same dimensions and cells.
func (g Grid) Equal(other Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for y := range g.rows {
		if g.rows[y] != other.rows[y] {
			return false
		}
	}
	return true
}

// String renders the grid, see Render.
func (g Grid) String() string {
	return Render(g)
}

func widthMask(width int) Row {
	if width >= MaxWidth {
		return ^Row(0)
	}
	return Row(1)<<uint(width) - 1
}
