package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/specialistvlad/gridlife/internal/app"
	"github.com/specialistvlad/gridlife/internal/driver"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/specialistvlad/gridlife/internal/publish"
)

// Exit codes for argument errors.
const (
	ExitUsage       = 1
	ExitDimensions  = 2
	ExitGenerations = 3
	ExitRowEncoding = 4
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErrorf(code int, cause error, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gridlife", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridlife - Conway's Game of Life on a packed, fixed-size grid.

Usage:
  gridlife [options] width height [numGenerations] row_1 ... row_height
  gridlife [options] -pattern PATH [numGenerations]

Arguments:
  width, height
    Grid dimensions. width is at most 64.
  numGenerations
    Number of generations to run. When omitted the simulation runs until
    interrupted, pausing -interval between generations.
  row_N
    Initial contents of row N as binary digits, most significant first.

Options:
`)
		flagSet.PrintDefaults()
	}

	intervalFlag := flagSet.Duration("interval", driver.DefaultInterval, "Pause between generations when running indefinitely.")
	patternFlag := flagSet.String("pattern", "", "Path to an .hcl/.yaml pattern file or a directory of them.")
	patternNameFlag := flagSet.String("pattern-name", "", "Pattern to run from -pattern. Defaults to the first one found.")
	verifyFlag := flagSet.Bool("verify", false, "Check the pattern's expected result instead of printing generations.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io server URL to stream generations to.")
	publishEventFlag := flagSet.String("publish-event", publish.DefaultEvent, "socket.io event name for published generations.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health and status server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitDimensions, Message: err.Error(), Err: err}
	}
	slog.Debug("Arguments parsed successfully.", "positional", flagSet.NArg())

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitDimensions, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitDimensions, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		PatternPath:     *patternFlag,
		PatternName:     *patternNameFlag,
		Verify:          *verifyFlag,
		Interval:        *intervalFlag,
		PublishURL:      *publishURLFlag,
		PublishEvent:    *publishEventFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	}

	var err error
	if cfg.PatternPath != "" {
		err = parsePatternArgs(&cfg, flagSet.Args())
	} else {
		err = parseGridArgs(&cfg, flagSet.Args())
	}
	if err != nil {
		return nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// parseGridArgs handles `width height [numGenerations] row_1 ... row_height`.
func parseGridArgs(cfg *app.Config, args []string) error {
	if len(args) < 2 {
		return exitErrorf(ExitUsage, nil, "Please specify x and y dimensions, and number of generations.")
	}

	width, err := strconv.Atoi(args[0])
	if err != nil || width <= 0 {
		return exitErrorf(ExitDimensions, grid.ErrInvalidDimensions, "xlen must be greater than 0.")
	}
	height, err := strconv.Atoi(args[1])
	if err != nil || height <= 0 {
		return exitErrorf(ExitDimensions, grid.ErrInvalidDimensions, "ylen must be greater than 0.")
	}
	if err := grid.CheckDimensions(width, height); err != nil {
		return exitErrorf(ExitDimensions, err, "xlen must be at most %d: %v", grid.MaxWidth, err)
	}
	cfg.Width, cfg.Height = width, height

	rest := args[2:]
	switch len(rest) {
	case height + 1:
		generations, err := parseGenerations(rest[0])
		if err != nil {
			return err
		}
		cfg.Generations = generations
		rest = rest[1:]
	case height:
		// no generation count: run until interrupted
	default:
		return exitErrorf(ExitUsage, nil, "Please specify initial contents for the %d rows", height)
	}

	rows, err := grid.DecodeRows(rest, width)
	if err != nil {
		return exitErrorf(ExitRowEncoding, err, "%v", err)
	}
	cfg.RowTexts = rest
	cfg.Rows = rows
	return nil
}

// parsePatternArgs handles `[numGenerations]` after -pattern.
func parsePatternArgs(cfg *app.Config, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		generations, err := parseGenerations(args[0])
		if err != nil {
			return err
		}
		cfg.Generations = generations
		return nil
	default:
		return exitErrorf(ExitUsage, nil, "With -pattern only the number of generations may be given, got %d arguments", len(args))
	}
}

func parseGenerations(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, exitErrorf(ExitGenerations, err, "Num generations must be at least 1.")
	}
	return n, nil
}
