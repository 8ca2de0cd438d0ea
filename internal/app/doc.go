// Package app wires the grid, driver and sinks together. It owns the logger,
// the optional publisher and the health/status server, and is decoupled from
// the command-line entrypoint that builds its Config.
package app
