package state

import (
	"errors"
	"slices"

	"ShapeBoard/internal/geom"
)

// Kind names a shape variant. KindNone means no drawing tool is armed and
// is never stored on a shape.
type Kind string

const (
	KindNone      Kind = ""
	KindFree      Kind = "free"
	KindRect      Kind = "rect"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindTriangle  Kind = "triangle"
	KindTrapezoid Kind = "trapezoid"
	KindStar      Kind = "star"
)

// Kinds lists every drawable variant in toolbar order.
var Kinds = []Kind{KindFree, KindRect, KindCircle, KindLine, KindTriangle, KindTrapezoid, KindStar}

// Valid reports whether k is a drawable variant.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// PreviewID marks the transient shape shown while a gesture is in progress.
const PreviewID int64 = -1

var (
	ErrInvalidID        = errors.New("shape id must be positive")
	ErrInvalidKind      = errors.New("unknown shape kind")
	ErrInvalidLineWidth = errors.New("line width must be positive")
	ErrPointsMismatch   = errors.New("points must be set for free shapes only")
)

// Shape is one vector primitive or free stroke on the board.
type Shape struct {
	ID        int64        `json:"id"`
	Type      Kind         `json:"type"`
	Start     geom.Point   `json:"start"`
	End       geom.Point   `json:"end"`
	Stroke    string       `json:"stroke"`
	Fill      string       `json:"fill"`
	LineWidth float64      `json:"lineWidth"`
	Points    []geom.Point `json:"points,omitempty"`

	path *geom.Path // cached BuildPath result, never serialized
}

// Validate checks the invariants of a stored shape.
func (s Shape) Validate() error {
	if s.ID <= 0 {
		return ErrInvalidID
	}
	return s.validateBody()
}

func (s Shape) validateBody() error {
	if !s.Type.Valid() {
		return ErrInvalidKind
	}
	if !(s.LineWidth > 0) {
		return ErrInvalidLineWidth
	}
	if (len(s.Points) > 0) != (s.Type == KindFree) {
		return ErrPointsMismatch
	}
	return nil
}

// Path returns the shape's geometry, using the cached copy when present.
func (s Shape) Path() geom.Path {
	if s.path != nil {
		return *s.path
	}
	return BuildPath(s)
}

// Rehydrated returns a copy with its geometry cache rebuilt.
func (s Shape) Rehydrated() Shape {
	p := BuildPath(s)
	s.path = &p
	return s
}

// Stripped returns a deep copy with no geometry cache, as kept in history.
func (s Shape) Stripped() Shape {
	s.path = nil
	s.Points = slices.Clone(s.Points)
	return s
}

// Matches compares the drawable fields of two shapes: type, anchors, style
// and the free-stroke points. The id and the geometry cache are ignored.
func (s Shape) Matches(o Shape) bool {
	return s.Type == o.Type &&
		s.Start == o.Start &&
		s.End == o.End &&
		s.Stroke == o.Stroke &&
		s.Fill == o.Fill &&
		s.LineWidth == o.LineWidth &&
		slices.Equal(s.Points, o.Points)
}

// Translated returns the shape moved so that Start lands on newStart. End
// and every free-stroke point shift by the same delta.
func (s Shape) Translated(newStart geom.Point) Shape {
	delta := newStart.Sub(s.Start)
	s.Start = newStart
	s.End = s.End.Add(delta)
	if len(s.Points) > 0 {
		moved := make([]geom.Point, len(s.Points))
		for i, p := range s.Points {
			moved[i] = p.Add(delta)
		}
		s.Points = moved
	}
	return s.Rehydrated()
}

// Patch is a style change. Nil fields are left untouched.
type Patch struct {
	Stroke    *string
	Fill      *string
	LineWidth *float64
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Stroke == nil && p.Fill == nil && p.LineWidth == nil
}

// apply returns the patched shape, or false if the result would break an
// invariant. Nothing is applied in that case.
func (p Patch) apply(s Shape) (Shape, bool) {
	if p.LineWidth != nil && !(*p.LineWidth > 0) {
		return s, false
	}
	if p.Stroke != nil {
		s.Stroke = *p.Stroke
	}
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.LineWidth != nil {
		s.LineWidth = *p.LineWidth
	}
	return s, true
}
