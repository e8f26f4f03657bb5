// Package gui opens a raylib window that edits the three inputs and redraws
// the rods, the predicted path and the weights every frame.
package gui
