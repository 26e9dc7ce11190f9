// Package dashboard implements the jtop terminal dashboard.
//
// The Engine is a Bubble Tea model. Every refresh period a frame tick
// redraws the active page with the latest telemetry snapshot; the render
// loop never waits on the telemetry reader.
//
// # Input
//
// Key handling is edge-triggered. The engine keeps the previous and current
// key; a binding fires only when they differ, so holding a key acts once.
// Frames without input feed NoKey, which re-arms the detector without
// triggering anything.
//
//	←/→       previous / next page, clamped
//	1-9       jump to page
//	q, esc    quit (alt+<key> does not match esc)
//	?         help overlay
//
// A left click on the bottom menu selects the page label under the cursor,
// or quits on the Quit label.
//
// # Layout
//
//	┌──────────────── SUDO SUGGESTED ────────────────┐  (only without root)
//	│ <machine> - Jetpack <version>                  │
//	│ active page body                               │
//	│ 1ALL  2GPU  3INFO  Quit                 label  │
//	└────────────────────────────────────────────────┘
//
// Terminals smaller than 50x20 get a size alert instead. A page that fails
// to draw (error or panic) keeps the previous frame on screen.
package dashboard
