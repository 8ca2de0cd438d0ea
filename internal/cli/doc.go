// Package cli turns the command line into an app.Config. Positional
// arguments describe the starting grid; flags select patterns, pacing and
// outputs. Invalid input comes back as an *ExitError carrying the process
// exit status.
package cli
