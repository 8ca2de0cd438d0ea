package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/gridlife/internal/app"
	"github.com/specialistvlad/gridlife/internal/driver"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults(cfg app.Config) app.Config {
	cfg.Interval = driver.DefaultInterval
	cfg.PublishEvent = publish.DefaultEvent
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	return cfg
}

func TestParse_Success(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "bounded grid",
			args: []string{"3", "2", "5", "101", "010"},
			want: defaults(app.Config{
				Width: 3, Height: 2, Generations: 5,
				RowTexts: []string{"101", "010"},
				Rows:     []grid.Row{5, 2},
			}),
		},
		{
			name: "unbounded grid",
			args: []string{"2", "1", "11"},
			want: defaults(app.Config{
				Width: 2, Height: 1,
				RowTexts: []string{"11"},
				Rows:     []grid.Row{3},
			}),
		},
		{
			name: "rows that look like a generation count",
			args: []string{"1", "2", "1", "1"},
			want: defaults(app.Config{
				Width: 1, Height: 2,
				RowTexts: []string{"1", "1"},
				Rows:     []grid.Row{1, 1},
			}),
		},
		{
			name: "options",
			args: []string{
				"-interval=20ms", "-log-level=DEBUG", "-log-format=json",
				"-healthcheck-port=8080", "-publish-url=http://localhost:3000", "-publish-event=tick",
				"1", "1", "1",
			},
			want: app.Config{
				Width: 1, Height: 1,
				RowTexts:        []string{"1"},
				Rows:            []grid.Row{1},
				Interval:        20 * time.Millisecond,
				LogLevel:        "debug",
				LogFormat:       "json",
				HealthcheckPort: 8080,
				PublishURL:      "http://localhost:3000",
				PublishEvent:    "tick",
			},
		},
		{
			name: "pattern",
			args: []string{"-pattern", "patterns/", "-pattern-name", "glider", "-verify"},
			want: defaults(app.Config{PatternPath: "patterns/", PatternName: "glider", Verify: true}),
		},
		{
			name: "pattern with generations",
			args: []string{"-pattern", "glider.hcl", "12"},
			want: defaults(app.Config{PatternPath: "glider.hcl", Generations: 12}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			// --- Assert ---
			require.NoError(t, err)
			require.False(t, shouldExit)
			if diff := cmp.Diff(tc.want, *cfg, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		args        []string
		wantCode    int
		wantMessage string
		wantErr     error
	}{
		{name: "no dimensions", args: nil, wantCode: ExitUsage, wantMessage: "Please specify x and y dimensions, and number of generations."},
		{name: "non numeric width", args: []string{"abc", "1", "1", "1"}, wantCode: ExitDimensions, wantMessage: "xlen must be greater than 0.", wantErr: grid.ErrInvalidDimensions},
		{name: "zero height", args: []string{"1", "0"}, wantCode: ExitDimensions, wantMessage: "ylen must be greater than 0.", wantErr: grid.ErrInvalidDimensions},
		{name: "too wide", args: []string{"65", "1", "1", "1"}, wantCode: ExitDimensions, wantErr: grid.ErrDimensionOverflow},
		{name: "zero generations", args: []string{"1", "1", "0", "1"}, wantCode: ExitGenerations, wantMessage: "Num generations must be at least 1."},
		{name: "missing rows", args: []string{"1", "3", "1"}, wantCode: ExitUsage, wantMessage: "Please specify initial contents for the 3 rows"},
		{name: "bad row", args: []string{"2", "1", "1", "2"}, wantCode: ExitRowEncoding, wantErr: grid.ErrInvalidRowEncoding},
		{name: "bad log format", args: []string{"-log-format=xml", "1", "1", "1"}, wantCode: ExitDimensions},
		{name: "bad log level", args: []string{"-log-level=loud", "1", "1", "1"}, wantCode: ExitDimensions},
		{name: "pattern with extra args", args: []string{"-pattern", "p.hcl", "1", "2"}, wantCode: ExitUsage},
		{name: "pattern with zero generations", args: []string{"-pattern", "p.hcl", "0"}, wantCode: ExitGenerations},
		{name: "verify without pattern", args: []string{"-verify", "1", "1", "1"}, wantCode: ExitUsage},
		{name: "port out of range", args: []string{"-healthcheck-port=70000", "1", "1", "1"}, wantCode: ExitUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.False(t, shouldExit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T", err)
			assert.Equal(t, tc.wantCode, exitErr.Code)
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, exitErr.Message)
			}
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-help"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "gridlife [options] width height [numGenerations]")
	assert.Contains(t, out.String(), "-healthcheck-port")
}
