// Package viz provides the terminal viewer for circle scenes.
//
// The viewer is a Bubble Tea program drawing every body on a [Canvas] of
// braille cells and listing each pair with its relation:
//
//   - [Model]: interactive viewer over a [scene.World]
//   - [Canvas]: Braille-based pixel canvas
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	←↓↑→/hjkl - Move selected body
//	+ / -     - Grow / shrink selected body
//	Tab       - Select next body
//	N         - Apply next scene step
//	Space     - Play/Pause scene steps
//	T         - Cycle color themes
//	R         - Reset to initial layout
//	Q         - Quit
package viz
