// Package relaycmd implements the moqrelay CLI subcommands. The relay has
// no network surface of its own; the demo command wires an in-process
// publisher and subscribers through the relay core to exercise replay,
// live fan-out, and group eviction end to end.
package relaycmd
