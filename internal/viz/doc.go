// Package viz renders the rod throw in a terminal.
//
//   - [Canvas]: braille dot canvas with line and circle primitives
//   - [Rasterize]: draws a [scene.Scene] onto a canvas
//   - [Model]: Bubble Tea program that edits the three inputs and redraws
//     the scene every frame
//
// # Key Bindings
//
//	Tab/Down   - Next field
//	Shift+Tab  - Previous field
//	Backspace  - Delete last character
//	Ctrl+U     - Clear field
//	P          - Cycle presets
//	R          - Reset fields to defaults
//	Q/Esc      - Quit
package viz
