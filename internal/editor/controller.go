package editor

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ShapeBoard/internal/geom"
	"ShapeBoard/internal/state"
)

// Mode is the controller's gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModePaintingShape
	ModePaintingFree
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModePaintingShape:
		return "painting-shape"
	case ModePaintingFree:
		return "painting-free"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Controller owns a board and its history and applies input to them. Every
// exported method holds the controller lock for its whole duration, so a
// snapshot or a change notification always sees a fully updated board.
//
// The surface and the change hook are called with the lock held and must
// not call back into the controller.
type Controller struct {
	mu sync.Mutex

	board    *state.Board
	history  *state.History
	ids      state.IDSource
	surface  Surface
	onChange ChangeFunc
	logger   *zap.Logger
	session  string

	tool       state.Kind
	style      Style
	mode       Mode
	anchor     geom.Point
	dragOffset geom.Point
	stroke     []geom.Point
	preview    *state.Shape
}

// Option configures a Controller.
type Option func(*Controller)

// WithSurface attaches a surface at construction.
func WithSurface(s Surface) Option {
	return func(c *Controller) { c.surface = s }
}

// WithIDSource replaces the default counter used for new shape ids.
func WithIDSource(ids state.IDSource) Option {
	return func(c *Controller) { c.ids = ids }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStyle sets the style of the first shape drawn.
func WithStyle(s Style) Option {
	return func(c *Controller) { c.style = s }
}

// WithChangeHook registers fn to run after every board change.
func WithChangeHook(fn ChangeFunc) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New returns a controller over an empty board.
func New(opts ...Option) *Controller {
	c := &Controller{
		style:   DefaultStyle(),
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.ids == nil {
		c.ids = state.NewClock(0)
	}
	c.logger = c.logger.Named("editor").With(zap.String("session", c.session))
	c.board = state.NewBoard(c.logger.Named("board"))
	c.history = state.NewHistory(c.logger.Named("history"))
	return c
}

// Session identifies this controller in logs.
func (c *Controller) Session() string { return c.session }

// Attach sets the rendering surface and draws the current board on it. A
// nil surface detaches; pointer and key input are then ignored.
func (c *Controller) Attach(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface = s
	c.render()
}

// SetTool arms kind for the next gesture. KindNone returns to selection.
// Unknown kinds are ignored.
func (c *Controller) SetTool(kind state.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kind != state.KindNone && !kind.Valid() {
		c.logger.Warn("unknown tool ignored", zap.String("tool", string(kind)))
		return
	}
	c.tool = kind
	c.render()
}

// PointerDown starts a gesture at p: a drag when p hits a shape (the most
// recently added one wins), otherwise a paint when a tool is armed.
func (c *Controller) PointerDown(p geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return
	}
	// A drag whose pointer-up never arrived still lands in history.
	if c.mode == ModeDragging && c.history.Record(c.board.Shapes()) {
		c.changed()
	}
	c.resetGesture()

	if s, ok := c.board.TopmostAt(p); ok {
		c.board.Select(s.ID)
		c.mode = ModeDragging
		c.dragOffset = p.Sub(s.Start)
		c.logger.Debug("drag started", zap.Int64("id", s.ID))
		c.render()
		return
	}
	c.board.ClearSelection()

	switch c.tool {
	case state.KindNone:
	case state.KindFree:
		c.mode = ModePaintingFree
		c.anchor = p
		c.stroke = []geom.Point{p}
	default:
		c.mode = ModePaintingShape
		c.anchor = p
	}
	c.render()
}

// PointerMove drags the selected shape, updates the live preview, or tracks
// hover, depending on the gesture in progress.
func (c *Controller) PointerMove(p geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return
	}

	switch c.mode {
	case ModeDragging:
		if id, ok := c.board.Selected(); ok && c.board.MoveByID(id, p.Sub(c.dragOffset)) {
			c.changed()
		}
	case ModePaintingShape:
		preview := c.newShape(state.PreviewID, c.anchor, p, nil)
		c.preview = &preview
	case ModePaintingFree:
		c.stroke = append(c.stroke, p)
		preview := c.newShape(state.PreviewID, c.anchor, p, slices.Clone(c.stroke))
		c.preview = &preview
	default:
		var id int64
		if s, ok := c.board.TopmostAt(p); ok {
			id = s.ID
		}
		if prev, _ := c.board.Hovered(); prev == id {
			return
		}
		c.board.SetHovered(id)
	}
	c.render()
}

// PointerUp finishes the gesture: a drag is snapshotted with the selection
// kept, a paint commits a new shape and disarms the tool.
func (c *Controller) PointerUp(p geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return
	}

	switch c.mode {
	case ModeDragging:
		c.mode = ModeIdle
		if c.history.Record(c.board.Shapes()) {
			c.changed()
		}
	case ModePaintingShape, ModePaintingFree:
		c.commit(p)
	default:
		return
	}
	c.render()
}

func (c *Controller) commit(p geom.Point) {
	var points []geom.Point
	if c.mode == ModePaintingFree {
		points = c.stroke
		if points[len(points)-1] != p {
			points = append(points, p)
		}
	}
	s := c.newShape(c.ids.Next(), c.anchor, p, points)
	if c.board.Insert(s) {
		c.history.Record(c.board.Shapes())
		c.changed()
		c.logger.Info("shape committed",
			zap.Int64("id", s.ID),
			zap.String("type", string(s.Type)))
	}
	c.resetGesture()
	c.tool = state.KindNone
}

func (c *Controller) newShape(id int64, start, end geom.Point, points []geom.Point) state.Shape {
	return state.Shape{
		ID:        id,
		Type:      c.tool,
		Start:     start,
		End:       end,
		Stroke:    c.style.Stroke,
		Fill:      c.style.Fill,
		LineWidth: c.style.LineWidth,
		Points:    points,
	}
}

// Cancel abandons the gesture in progress. A drag snaps the shape back to
// where the last snapshot had it; a paint discards its preview.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

func (c *Controller) cancel() {
	switch c.mode {
	case ModeIdle:
		return
	case ModeDragging:
		selected, _ := c.board.Selected()
		c.board.ReplaceAll(c.history.Current().Rehydrated())
		c.board.Select(selected)
		c.changed()
	}
	c.resetGesture()
	c.render()
}

func (c *Controller) resetGesture() {
	c.mode = ModeIdle
	c.stroke = nil
	c.preview = nil
}

// SetStroke restyles the selected shape, or sets the stroke of the next
// shape when nothing is selected.
func (c *Controller) SetStroke(color string) {
	c.restyle(state.Patch{Stroke: &color}, func(s *Style) { s.Stroke = color })
}

// SetFill restyles the selected shape, or sets the fill of the next shape.
func (c *Controller) SetFill(color string) {
	c.restyle(state.Patch{Fill: &color}, func(s *Style) { s.Fill = color })
}

// SetLineWidth restyles the selected shape, or sets the width of the next
// shape. Non-positive widths are ignored.
func (c *Controller) SetLineWidth(w float64) {
	if !(w > 0) {
		return
	}
	c.restyle(state.Patch{LineWidth: &w}, func(s *Style) { s.LineWidth = w })
}

func (c *Controller) restyle(patch state.Patch, setDefault func(*Style)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.board.Selected(); ok {
		if c.board.UpdateByID(id, patch) && c.history.Record(c.board.Shapes()) {
			c.changed()
		}
	} else {
		setDefault(&c.style)
	}
	c.render()
}

// Undo steps back one snapshot and clears the selection.
func (c *Controller) Undo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undo()
}

func (c *Controller) undo() {
	c.resetGesture()
	snap := c.history.Undo()
	c.board.ReplaceAll(snap.Rehydrated())
	c.board.ClearSelection()
	c.changed()
	c.render()
}

// Redo steps forward one snapshot and clears the selection. At the tip of
// the history it does nothing.
func (c *Controller) Redo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redo()
}

func (c *Controller) redo() {
	snap, ok := c.history.Redo()
	if !ok {
		return
	}
	c.resetGesture()
	c.board.ReplaceAll(snap.Rehydrated())
	c.board.ClearSelection()
	c.changed()
	c.render()
}

// Clear empties the board and resets the history to the origin.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetGesture()
	c.board.Clear()
	c.history.Reset()
	c.changed()
	c.logger.Info("board cleared")
	c.render()
}

// HandleKey runs the command bound to ev. It reports true when the key was
// consumed and the host should suppress its default action. Escape cancels
// the gesture in progress.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return false
	}
	if ev.Key == "Escape" {
		c.cancel()
		return true
	}
	switch CommandFor(ev) {
	case CommandUndo:
		c.undo()
	case CommandRedo:
		c.redo()
	default:
		return false
	}
	return true
}

// Restore replaces board and history with a persisted log. The live board
// becomes the snapshot under the cursor and the id source moves past every
// restored id.
func (c *Controller) Restore(l state.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetGesture()
	c.history.Restore(l)
	for _, snap := range l.Snapshots {
		for _, s := range snap {
			c.ids.Observe(s.ID)
		}
	}
	c.board.ReplaceAll(c.history.Current().Rehydrated())
	c.board.ClearSelection()
	c.changed()
	c.logger.Info("board restored",
		zap.Int("shapes", c.board.Len()),
		zap.Int("snapshots", c.history.Len()),
		zap.Int("cursor", c.history.Cursor()))
	c.render()
}

func (c *Controller) changed() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.board.Shapes(), c.history.Export())
}

func (c *Controller) render() {
	if c.surface == nil {
		return
	}
	c.surface.Render(c.frame())
}

func (c *Controller) frame() Frame {
	f := Frame{
		Shapes:  c.board.Shapes(),
		Tool:    c.tool,
		CanUndo: c.history.CanUndo(),
		CanRedo: c.history.CanRedo(),
	}
	f.Selected, _ = c.board.Selected()
	f.Hovered, _ = c.board.Hovered()
	if c.preview != nil {
		p := *c.preview
		f.Preview = &p
	}
	return f
}

// Frame returns what the surface would be asked to draw now.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame()
}

// Shapes returns a copy of the live board.
func (c *Controller) Shapes() []state.Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Shapes()
}

// Selected returns the selected shape, if any.
func (c *Controller) Selected() (state.Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.board.Selected()
	if !ok {
		return state.Shape{}, false
	}
	return c.board.Get(id)
}

// Log returns a copy of the history.
func (c *Controller) Log() state.Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Export()
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Tool() state.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

func (c *Controller) Style() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}
