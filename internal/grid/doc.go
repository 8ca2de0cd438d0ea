/*
Package grid holds the packed representation of a Game of Life board and the
codec that converts it to and from text.

Each row of a Grid is a single Row (a uint64). Bit x, counted from the
low-order bit, is the cell in column x. A Grid is therefore capped at
MaxWidth columns; wider boards are rejected with ErrDimensionOverflow instead
of losing high bits.

The textual row format is a base-2 numeral written most significant digit
first, so "100" is a live cell in column 2 of a 3-wide row. Render prints rows
in the same orientation: column width-1 is the leftmost character.
*/
package grid
