// Package display defines the contract between the engine and the
// display-server binding: monitor enumeration, surface lifetime, the
// event stream that drives reconciliation, and the exclusive keyboard
// grab the menu controller toggles.
//
// The engine never talks to a compositor directly; it consumes whichever
// Provider it was assembled with. Concrete providers live in subpackages
// (`headless` for tests and dry runs, `hypr` for Hyprland IPC).
package display
