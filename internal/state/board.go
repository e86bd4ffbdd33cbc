package state

import (
	"go.uber.org/zap"

	"ShapeBoard/internal/geom"
)

// Board is the ordered shape collection plus the selected and hovered ids.
// Insertion order is drawing order: later shapes sit on top.
//
// Board is not safe for concurrent use; the editor serializes access.
type Board struct {
	shapes   []Shape
	selected int64
	hovered  int64
	logger   *zap.Logger
}

// NewBoard returns an empty board. A nil logger discards output.
func NewBoard(logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{logger: logger}
}

func (b *Board) index(id int64) int {
	for i := range b.shapes {
		if b.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// Insert appends s on top of the board. Shapes that fail validation or
// reuse an existing id are rejected.
func (b *Board) Insert(s Shape) bool {
	if err := s.Validate(); err != nil {
		b.logger.Warn("insert rejected", zap.Int64("id", s.ID), zap.Error(err))
		return false
	}
	if b.index(s.ID) >= 0 {
		b.logger.Warn("insert rejected: duplicate id", zap.Int64("id", s.ID))
		return false
	}
	b.shapes = append(b.shapes, s.Stripped().Rehydrated())
	b.logger.Debug("shape inserted", zap.Int64("id", s.ID), zap.String("type", string(s.Type)))
	return true
}

// UpdateByID applies a style patch to the shape with the given id. Unknown
// ids, empty patches and patches that would break an invariant change
// nothing and report false.
func (b *Board) UpdateByID(id int64, patch Patch) bool {
	i := b.index(id)
	if i < 0 || patch.Empty() {
		return false
	}
	next, ok := patch.apply(b.shapes[i])
	if !ok {
		b.logger.Warn("update rejected", zap.Int64("id", id))
		return false
	}
	b.shapes[i] = next
	return true
}

// MoveByID translates the shape so that its start lands on newStart.
func (b *Board) MoveByID(id int64, newStart geom.Point) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.shapes[i] = b.shapes[i].Translated(newStart)
	return true
}

// ReplaceAll swaps the whole board for shapes, rebuilding geometry. Invalid
// shapes are dropped. Selection and hover are cleared when their shape is
// gone.
func (b *Board) ReplaceAll(shapes []Shape) {
	next := make([]Shape, 0, len(shapes))
	for _, s := range shapes {
		if err := s.Validate(); err != nil {
			b.logger.Warn("replace: dropping shape", zap.Int64("id", s.ID), zap.Error(err))
			continue
		}
		next = append(next, s.Stripped().Rehydrated())
	}
	b.shapes = next
	if b.index(b.selected) < 0 {
		b.selected = 0
	}
	if b.index(b.hovered) < 0 {
		b.hovered = 0
	}
}

// Clear removes every shape and drops selection and hover.
func (b *Board) Clear() {
	b.shapes = nil
	b.selected = 0
	b.hovered = 0
}

// Len returns the number of shapes.
func (b *Board) Len() int { return len(b.shapes) }

// Shapes returns a copy of the board in insertion order.
func (b *Board) Shapes() []Shape {
	out := make([]Shape, len(b.shapes))
	for i, s := range b.shapes {
		out[i] = s
		out[i].Points = append([]geom.Point(nil), s.Points...)
	}
	return out
}

// Get returns the shape with the given id.
func (b *Board) Get(id int64) (Shape, bool) {
	i := b.index(id)
	if i < 0 {
		return Shape{}, false
	}
	return b.shapes[i], true
}

// TopmostAt returns the most recently inserted shape that hits pt.
func (b *Board) TopmostAt(pt geom.Point) (Shape, bool) {
	for i := len(b.shapes) - 1; i >= 0; i-- {
		if HitTest(b.shapes[i], pt) {
			return b.shapes[i], true
		}
	}
	return Shape{}, false
}

// Select marks the shape with the given id as selected.
func (b *Board) Select(id int64) bool {
	if b.index(id) < 0 {
		return false
	}
	b.selected = id
	return true
}

// Selected returns the selected id, if any.
func (b *Board) Selected() (int64, bool) {
	return b.selected, b.selected != 0
}

func (b *Board) ClearSelection() { b.selected = 0 }

// SetHovered records the shape under the pointer; 0 clears it.
func (b *Board) SetHovered(id int64) {
	if id != 0 && b.index(id) < 0 {
		id = 0
	}
	b.hovered = id
}

// Hovered returns the hovered id, if any.
func (b *Board) Hovered() (int64, bool) {
	return b.hovered, b.hovered != 0
}
