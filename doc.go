/*
Package relaysim provides the simulation kernel for a relay-logic circuit
editor: a network compiler that turns a user-drawn schematic (switches,
indicators, relays, power sources and wires) into electrical nets, and a
dirty-flag propagation loop that drives the circuit to a stable state
whenever an input changes.

The API is designed to mirror the electrical reality it models as closely as
possible: a Document holds Pages of Components connected by Wires; an Engine
compiles a Document into VNETs and steps them to stability. This package only
implements the kernel — rendering, file-tab management and the terminal /
remote control server are external collaborators that talk to the kernel
through this package's exported API.
*/
package relaysim
