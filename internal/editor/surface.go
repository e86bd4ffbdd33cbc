// Package editor turns pointer and keyboard input into board mutations and
// history snapshots, and pushes frames to a rendering surface.
package editor

import (
	"strings"

	"ShapeBoard/internal/state"
)

// Frame is everything a surface needs to draw one picture of the board.
type Frame struct {
	Shapes   []state.Shape
	Preview  *state.Shape // in-progress gesture, ID is state.PreviewID
	Selected int64        // 0 when nothing is selected
	Hovered  int64        // 0 when the pointer is over no shape
	Tool     state.Kind
	CanUndo  bool
	CanRedo  bool
}

// Surface draws frames. Render is called synchronously after each change.
type Surface interface {
	Render(f Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

func (f SurfaceFunc) Render(fr Frame) { f(fr) }

// ChangeFunc receives the live board and the history after every board
// change. It is how persistence is attached.
type ChangeFunc func(board []state.Shape, log state.Log)

// Style is the stroke, fill and width given to the next shape drawn.
type Style struct {
	Stroke    string
	Fill      string
	LineWidth float64
}

// DefaultStyle is black on white, two units wide.
func DefaultStyle() Style {
	return Style{Stroke: "#000000", Fill: "#ffffff", LineWidth: 2}
}

// KeyEvent is a key press as delivered by the host toolkit.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Command is what a key press maps to.
type Command int

const (
	CommandNone Command = iota
	CommandUndo
	CommandRedo
)

// CommandFor maps the platform undo combination (Ctrl or Cmd with Z) to
// undo, and the same with Shift to redo.
func CommandFor(ev KeyEvent) Command {
	if !(ev.Ctrl || ev.Meta) || !strings.EqualFold(ev.Key, "z") {
		return CommandNone
	}
	if ev.Shift {
		return CommandRedo
	}
	return CommandUndo
}
