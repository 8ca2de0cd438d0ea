/*
Package driver runs a grid through successive generations and hands every
generation to a set of sinks.

A Driver moves through three states. It starts in StateInitial, where the
starting grid is emitted as generation 0. It then enters StateStepping, where
each iteration applies life.Step and emits the result. In bounded mode
(Config.Generations > 0) it reaches StateDone after exactly that many steps,
so Generations+1 snapshots are emitted in total. In unbounded mode
(Config.Generations == 0) StateDone is only reached when the context is
cancelled; between generations the driver pauses for Config.Interval so the
output can be watched.
*/
package driver
