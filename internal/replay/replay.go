// Package replay drives an editor.Controller from a JSON-lines script, one
// input event per line. Blank lines and lines starting with '#' are
// skipped.
//
//	{"op":"tool","tool":"rect"}
//	{"op":"down","x":10,"y":10}
//	{"op":"up","x":60,"y":40}
//	{"op":"undo"}
package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"ShapeBoard/internal/editor"
	"ShapeBoard/internal/geom"
	"ShapeBoard/internal/state"
)

type Op string

const (
	OpTool   Op = "tool"
	OpDown   Op = "down"
	OpMove   Op = "move"
	OpUp     Op = "up"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpClear  Op = "clear"
	OpCancel Op = "cancel"
	OpStroke Op = "stroke"
	OpFill   Op = "fill"
	OpWidth  Op = "width"
)

var (
	ErrUnknownOp    = errors.New("unknown op")
	ErrMissingField = errors.New("missing field")
)

// Event is one scripted input. Line is the 1-based script line it came
// from.
type Event struct {
	Op    Op
	Tool  state.Kind
	At    geom.Point
	Value string
	Width float64
	Line  int
}

type wireEvent struct {
	Op    string   `json:"op"`
	Tool  *string  `json:"tool"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Value *string  `json:"value"`
	Width *float64 `json:"width"`
}

// Parse reads a whole script. The first bad line aborts parsing; its
// error names the line.
func Parse(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		ev, err := parseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ev.Line = line
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return events, nil
}

func parseLine(raw []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return Event{}, err
	}
	ev := Event{Op: Op(w.Op)}
	switch ev.Op {
	case OpTool:
		if w.Tool == nil {
			return Event{}, fmt.Errorf("%w: tool", ErrMissingField)
		}
		ev.Tool = state.Kind(*w.Tool)
		if ev.Tool != state.KindNone && !ev.Tool.Valid() {
			return Event{}, fmt.Errorf("%w %q", state.ErrInvalidKind, *w.Tool)
		}
	case OpDown, OpMove, OpUp:
		if w.X == nil || w.Y == nil {
			return Event{}, fmt.Errorf("%w: x and y", ErrMissingField)
		}
		ev.At = geom.Pt(*w.X, *w.Y)
	case OpStroke, OpFill:
		if w.Value == nil {
			return Event{}, fmt.Errorf("%w: value", ErrMissingField)
		}
		ev.Value = *w.Value
	case OpWidth:
		if w.Width == nil {
			return Event{}, fmt.Errorf("%w: width", ErrMissingField)
		}
		ev.Width = *w.Width
	case OpUndo, OpRedo, OpClear, OpCancel:
	default:
		return Event{}, fmt.Errorf("%w %q", ErrUnknownOp, w.Op)
	}
	return ev, nil
}

// Run applies events in order. It stops early, returning the context's
// error, if ctx is done between two events.
func Run(ctx context.Context, c *editor.Controller, events []Event) error {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		Apply(c, ev)
	}
	return nil
}

// Apply feeds a single event to the controller.
func Apply(c *editor.Controller, ev Event) {
	switch ev.Op {
	case OpTool:
		c.SetTool(ev.Tool)
	case OpDown:
		c.PointerDown(ev.At)
	case OpMove:
		c.PointerMove(ev.At)
	case OpUp:
		c.PointerUp(ev.At)
	case OpUndo:
		c.Undo()
	case OpRedo:
		c.Redo()
	case OpClear:
		c.Clear()
	case OpCancel:
		c.Cancel()
	case OpStroke:
		c.SetStroke(ev.Value)
	case OpFill:
		c.SetFill(ev.Value)
	case OpWidth:
		c.SetLineWidth(ev.Width)
	}
}
