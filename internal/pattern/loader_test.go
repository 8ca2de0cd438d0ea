package pattern

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates files relative to a fresh temporary directory and
// returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

const blinkerHCL = `
pattern "blinker" {
  width       = 5
  generations = 1
  rows        = ["00000", "00000", "01110", "00000", "00000"]
  expect      = ["00000", "00100", "00100", "00100", "00000"]
}
`

func TestLoad_HCL(t *testing.T) {
	// --- Arrange ---
	dir := writeFiles(t, map[string]string{"blinker.hcl": blinkerHCL})

	// --- Act ---
	lib, err := Load(context.Background(), filepath.Join(dir, "blinker.hcl"))

	// --- Assert ---
	require.NoError(t, err)
	p, err := lib.Find("blinker")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Width)
	assert.Equal(t, 0, p.Height)
	assert.Equal(t, 1, p.Generations)
	assert.Equal(t, []string{"00000", "00000", "01110", "00000", "00000"}, p.Rows)
	assert.Len(t, p.Expect, 5)
	assert.Equal(t, filepath.Join(dir, "blinker.hcl"), p.Source)

	g, err := p.Grid()
	require.NoError(t, err)
	assert.Equal(t, "-----\n-----\n-###-\n-----\n-----\n", grid.Render(g))
}

func TestLoad_HCLNumericRowsAndFunctions(t *testing.T) {
	dir := writeFiles(t, map[string]string{"glider.hcl": `
pattern "glider" {
  width  = 4
  height = 3
  rows   = [4, strrev("0100"), 14]
}
`})

	lib, err := Load(context.Background(), dir)
	require.NoError(t, err)

	p, err := lib.Find("")
	require.NoError(t, err)
	assert.Equal(t, []string{"0100", "0010", "1110"}, p.Rows)
	assert.Empty(t, p.Expect)
}

func TestLoad_HCLEnvironment(t *testing.T) {
	t.Setenv("GRIDLIFE_TEST_WIDTH", "3")
	t.Setenv("GRIDLIFE_TEST_ROW", "101")
	dir := writeFiles(t, map[string]string{"env.hcl": `
pattern "from-env" {
  width = env.GRIDLIFE_TEST_WIDTH
  rows  = [env.GRIDLIFE_TEST_ROW, "010"]
}
`})

	lib, err := Load(context.Background(), dir)

	require.NoError(t, err)
	p, err := lib.Find("from-env")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Width)
	assert.Equal(t, []string{"101", "010"}, p.Rows)
}

func TestLoad_HCLErrors(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "syntax error",
			content:   `pattern "x" {`,
			errSubstr: "failed to parse HCL file",
		},
		{
			name:      "missing width",
			content:   `pattern "x" { rows = ["1"] }`,
			errSubstr: "failed to decode HCL file",
		},
		{
			name:      "rows not a list",
			content:   "pattern \"x\" {\n  width = 2\n  rows = \"01\"\n}\n",
			errSubstr: "rows must be a list",
		},
		{
			name:      "number too wide",
			content:   "pattern \"x\" {\n  width = 2\n  rows = [4]\n}\n",
			errSubstr: "does not fit in 2 columns",
		},
		{
			name:      "bool element",
			content:   "pattern \"x\" {\n  width = 2\n  rows = [true]\n}\n",
			errSubstr: "must be a string or number",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"bad.hcl": tc.content})

			_, err := Load(context.Background(), dir)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := writeFiles(t, map[string]string{"set.yaml": `
patterns:
  - name: block
    width: 4
    rows: ["0000", "0110", "0110", "0000"]
  - name: blinker
    width: 3
    generations: 2
    rows: ["000", "111", "000"]
    expect: ["000", "111", "000"]
`})

	lib, err := Load(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"block", "blinker"}, lib.Names())
	p, err := lib.Find("blinker")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Generations)
	assert.Equal(t, filepath.Join(dir, "set.yaml"), p.Source)
}

func TestLoad_DirectoryMergesFormats(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/blinker.hcl": blinkerHCL,
		"b/block.yml": `
patterns:
  - name: block
    width: 2
    rows: ["11", "11"]
`,
		"README.txt": "not a pattern",
	})

	lib, err := Load(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"blinker", "block"}, lib.Names())
}

func TestLoad_DuplicateNames(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"one.hcl": blinkerHCL,
		"two.hcl": blinkerHCL,
	})

	_, err := Load(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestLoad_PathErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "x"})

	_, err := Load(context.Background(), filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)

	_, err = Load(context.Background(), filepath.Join(dir, "notes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported pattern file")
}

func TestFind_NotFound(t *testing.T) {
	lib, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)

	_, err = lib.Find("")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = lib.Find("glider")
	require.ErrorIs(t, err, ErrNotFound)
}
