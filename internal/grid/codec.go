package grid

import (
	"fmt"
	"strings"
)

const (
	aliveGlyph = '#'
	deadGlyph  = '-'
)

// DecodeRow parses text as a base-2 numeral, most significant digit first,
// into a Row of the given width. Text longer than width is rejected rather
// than truncated.
func DecodeRow(text string, width int) (Row, error) {
	if err := CheckDimensions(width, 1); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, fmt.Errorf("%w: empty row", ErrInvalidRowEncoding)
	}
	if len(text) > width {
		return 0, fmt.Errorf("%w: %q has %d digits, grid width is %d", ErrInvalidRowEncoding, text, len(text), width)
	}

	var row Row
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '0':
			row <<= 1
		case '1':
			row = row<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %q has non-binary character %q at position %d", ErrInvalidRowEncoding, text, text[i], i)
		}
	}
	return row, nil
}

// DecodeRows decodes every text with DecodeRow, reporting the index of the
// first row that fails.
func DecodeRows(texts []string, width int) ([]Row, error) {
	rows := make([]Row, len(texts))
	for i, text := range texts {
		row, err := DecodeRow(text, width)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// EncodeRow is the inverse of DecodeRow: width binary digits, zero padded,
// most significant first.
func EncodeRow(row Row, width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for x := width - 1; x >= 0; x-- {
		if (row>>uint(x))&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// EncodeRows encodes every row of g with EncodeRow.
func EncodeRows(g Grid) []string {
	out := make([]string, g.height)
	for y, row := range g.rows {
		out[y] = EncodeRow(row, g.width)
	}
	return out
}

// Render draws g as height lines of width characters, '#' for live cells and
// '-' for dead ones. Column width-1 is printed first.
func Render(g Grid) string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for _, line := range RenderLines(g) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderLines is Render split into one string per row, without newlines.
func RenderLines(g Grid) []string {
	lines := make([]string, g.height)
	buf := make([]byte, g.width)
	for y, row := range g.rows {
		for i, x := 0, g.width-1; x >= 0; i, x = i+1, x-1 {
			if (row>>uint(x))&1 == 1 {
				buf[i] = aliveGlyph
			} else {
				buf[i] = deadGlyph
			}
		}
		lines[y] = string(buf)
	}
	return lines
}
