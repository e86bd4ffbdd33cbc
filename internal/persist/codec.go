// Package persist saves and restores the board and its history through a
// key/value collaborator.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"ShapeBoard/internal/geom"
	"ShapeBoard/internal/state"
)

// DefaultKey is the key the board is stored under.
const DefaultKey = "drawState"

var ErrMissingField = errors.New("missing required field")

// Document is the decoded stored value. Shapes mirrors the live board;
// History and Index are the undo log and its cursor.
type Document struct {
	Shapes  []state.Shape
	History []state.Snapshot
	Index   int
}

type wirePoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wireShape struct {
	ID        *int64      `json:"id"`
	Type      *string     `json:"type"`
	Start     *wirePoint  `json:"start"`
	End       *wirePoint  `json:"end"`
	Stroke    *string     `json:"stroke"`
	Fill      *string     `json:"fill"`
	LineWidth *float64    `json:"lineWidth"`
	Points    []wirePoint `json:"points,omitempty"`
}

type wireDocument struct {
	Shapes  []wireShape   `json:"shapes"`
	History [][]wireShape `json:"history"`
	Index   *int          `json:"index"`
}

// Encode serializes the live board and the history. Geometry caches are
// never written.
func Encode(board []state.Shape, l state.Log) ([]byte, error) {
	doc := struct {
		Shapes  []state.Shape    `json:"shapes"`
		History []state.Snapshot `json:"history"`
		Index   int              `json:"index"`
	}{
		Shapes:  state.NewSnapshot(board),
		History: l.Snapshots,
		Index:   l.Cursor,
	}
	if doc.History == nil {
		doc.History = []state.Snapshot{}
	}
	return json.Marshal(doc)
}

// Decode parses a stored value. Any shape missing a required field or
// breaking a shape invariant fails the whole document.
func Decode(data []byte) (Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}

	doc := Document{Index: -1}
	if w.Index != nil {
		doc.Index = *w.Index
	}
	var err error
	if doc.Shapes, err = decodeShapes(w.Shapes); err != nil {
		return Document{}, fmt.Errorf("shapes: %w", err)
	}
	doc.History = make([]state.Snapshot, 0, len(w.History))
	for i, ws := range w.History {
		snap, err := decodeShapes(ws)
		if err != nil {
			return Document{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		doc.History = append(doc.History, snap)
	}
	return doc, nil
}

func decodeShapes(ws []wireShape) ([]state.Shape, error) {
	out := make([]state.Shape, 0, len(ws))
	for i, w := range ws {
		s, err := w.shape()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (w wireShape) shape() (state.Shape, error) {
	switch {
	case w.ID == nil:
		return state.Shape{}, fmt.Errorf("%w: id", ErrMissingField)
	case w.Type == nil:
		return state.Shape{}, fmt.Errorf("%w: type", ErrMissingField)
	case w.Stroke == nil:
		return state.Shape{}, fmt.Errorf("%w: stroke", ErrMissingField)
	case w.Fill == nil:
		return state.Shape{}, fmt.Errorf("%w: fill", ErrMissingField)
	case w.LineWidth == nil:
		return state.Shape{}, fmt.Errorf("%w: lineWidth", ErrMissingField)
	}
	start, err := w.Start.point("start")
	if err != nil {
		return state.Shape{}, err
	}
	end, err := w.End.point("end")
	if err != nil {
		return state.Shape{}, err
	}
	s := state.Shape{
		ID:        *w.ID,
		Type:      state.Kind(*w.Type),
		Start:     start,
		End:       end,
		Stroke:    *w.Stroke,
		Fill:      *w.Fill,
		LineWidth: *w.LineWidth,
	}
	for i := range w.Points {
		p, err := w.Points[i].point(fmt.Sprintf("points[%d]", i))
		if err != nil {
			return state.Shape{}, err
		}
		s.Points = append(s.Points, p)
	}
	// A stroke saved without samples is kept as a dot at its start.
	if s.Type == state.KindFree && len(s.Points) == 0 {
		s.Points = []geom.Point{s.Start}
	}
	if err := s.Validate(); err != nil {
		return state.Shape{}, fmt.Errorf("shape %d: %w", s.ID, err)
	}
	return s, nil
}

func (w *wirePoint) point(field string) (geom.Point, error) {
	if w == nil || w.X == nil || w.Y == nil {
		return geom.Point{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return geom.Pt(*w.X, *w.Y), nil
}

// Normalize turns a decoded document into a history log. Empty snapshots
// are dropped and the index is shifted so it keeps pointing at the same
// snapshot, or at the one before it when its own was dropped. A document
// with no history but a valid board becomes a single-snapshot log.
func Normalize(doc Document) state.Log {
	if len(doc.History) == 0 {
		if len(doc.Shapes) == 0 {
			return state.EmptyLog()
		}
		return state.Log{Snapshots: []state.Snapshot{state.NewSnapshot(doc.Shapes)}, Cursor: 0}
	}

	l := state.Log{Cursor: -1}
	for i, snap := range doc.History {
		if len(snap) > 0 {
			l.Snapshots = append(l.Snapshots, snap)
		}
		if i == doc.Index {
			l.Cursor = len(l.Snapshots) - 1
		}
	}
	if doc.Index >= len(doc.History) {
		l.Cursor = len(l.Snapshots) - 1
	}
	return l
}
