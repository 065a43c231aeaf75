// Package ui implements the Bubble Tea terminal interface.
//
// The root Model owns three input surfaces (the mapping table, a barcode
// input, and a search input) plus an optional modal Dialog. Keyboard routing
// is strictly layered: ctrl+c always quits, an open dialog captures all keys,
// the help overlay dismisses on any key, a focused text input consumes
// everything except its escape/enter handling, and only then do the table
// bindings apply.
//
// All host communication happens in tea.Cmd closures that return typed
// messages; Update never blocks. Data flows in one direction: refresh cycles
// publish snapshotMsg values through Program.Send, the view layer reconciles
// them, and every successful mutation asks the refresh controller for a new
// cycle instead of patching local state.
package ui
