package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ShapeBoard/internal/geom"
	"ShapeBoard/internal/state"
)

// recorder is a Surface that keeps every frame it was asked to draw.
type recorder struct {
	frames []Frame
}

func (r *recorder) Render(f Frame) { r.frames = append(r.frames, f) }

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

func newTestController(t *testing.T, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	r := &recorder{}
	opts = append([]Option{WithSurface(r), WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(opts...), r
}

func draw(c *Controller, kind state.Kind, from, to geom.Point) {
	c.SetTool(kind)
	c.PointerDown(from)
	c.PointerMove(to)
	c.PointerUp(to)
}

func TestDrawCommitsShape(t *testing.T) {
	c, r := newTestController(t)
	draw(c, state.KindRect, geom.Pt(10, 10), geom.Pt(60, 40))

	shapes := c.Shapes()
	require.Len(t, shapes, 1)
	s := shapes[0]
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, state.KindRect, s.Type)
	assert.Equal(t, geom.Pt(10, 10), s.Start)
	assert.Equal(t, geom.Pt(60, 40), s.End)
	assert.Equal(t, DefaultStyle().LineWidth, s.LineWidth)
	assert.Empty(t, s.Points)

	assert.Equal(t, state.KindNone, c.Tool(), "tools are one-shot")
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Equal(t, 1, len(c.Log().Snapshots))
	assert.Nil(t, r.last().Preview)
}

func TestPreviewIsNeverStored(t *testing.T) {
	c, r := newTestController(t)
	c.SetTool(state.KindStar)
	c.PointerDown(geom.Pt(0, 0))
	c.PointerMove(geom.Pt(20, 20))
	c.PointerMove(geom.Pt(40, 40))

	f := r.last()
	require.NotNil(t, f.Preview)
	assert.Equal(t, state.PreviewID, f.Preview.ID)
	assert.Equal(t, geom.Pt(40, 40), f.Preview.End)
	assert.Empty(t, f.Shapes)
	assert.Empty(t, c.Shapes())
	assert.Empty(t, c.Log().Snapshots)
	assert.Equal(t, ModePaintingShape, c.Mode())
}

func TestFreeStroke(t *testing.T) {
	c, r := newTestController(t)
	c.SetTool(state.KindFree)
	c.PointerDown(geom.Pt(0, 0))
	c.PointerMove(geom.Pt(5, 1))
	require.NotNil(t, r.last().Preview)
	assert.Len(t, r.last().Preview.Points, 2)
	c.PointerMove(geom.Pt(10, 3))
	c.PointerUp(geom.Pt(12, 4))

	shapes := c.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, state.KindFree, shapes[0].Type)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(5, 1), geom.Pt(10, 3), geom.Pt(12, 4)}, shapes[0].Points)
	assert.Equal(t, geom.Pt(12, 4), shapes[0].End)
	assert.Equal(t, state.KindNone, c.Tool())
}

func TestFreeClickWithoutMoveKeepsAnchor(t *testing.T) {
	c, _ := newTestController(t)
	c.SetTool(state.KindFree)
	c.PointerDown(geom.Pt(3, 3))
	c.PointerUp(geom.Pt(3, 3))

	shapes := c.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, []geom.Point{geom.Pt(3, 3)}, shapes[0].Points)
	assert.NoError(t, shapes[0].Validate())
}

func TestOverlapSelectsLatest(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(100, 100))
	draw(c, state.KindRect, geom.Pt(50, 50), geom.Pt(150, 150))

	c.PointerDown(geom.Pt(75, 75))
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)
	assert.Equal(t, ModeDragging, c.Mode())
}

func TestHitWinsOverArmedTool(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(100, 100))
	c.SetTool(state.KindCircle)
	c.PointerDown(geom.Pt(50, 50))
	assert.Equal(t, ModeDragging, c.Mode())
}

func TestClickOnEmptySpaceClearsSelection(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(100, 100))
	c.PointerDown(geom.Pt(50, 50))
	c.PointerUp(geom.Pt(50, 50))
	_, ok := c.Selected()
	require.True(t, ok)

	c.PointerDown(geom.Pt(400, 400))
	_, ok = c.Selected()
	assert.False(t, ok)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestDragMovesAndSnapshots(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(10, 10), geom.Pt(50, 30))
	c.SetStroke("#123456")
	c.SetTool(state.KindFree)
	c.PointerDown(geom.Pt(200, 200))
	c.PointerMove(geom.Pt(210, 205))
	c.PointerUp(geom.Pt(220, 200))
	before := len(c.Log().Snapshots)

	// Grab the rect 5,5 inside its start corner and drag by (30, 20).
	c.PointerDown(geom.Pt(15, 15))
	c.PointerMove(geom.Pt(30, 25))
	assert.Equal(t, before, len(c.Log().Snapshots), "live drag is not recorded")
	c.PointerMove(geom.Pt(45, 35))
	c.PointerUp(geom.Pt(45, 35))

	rect := c.Shapes()[0]
	assert.Equal(t, geom.Pt(40, 30), rect.Start)
	assert.Equal(t, geom.Pt(80, 50), rect.End)
	assert.Equal(t, 2.0, rect.LineWidth)
	assert.Equal(t, "#000000", rect.Stroke)
	assert.Equal(t, "#ffffff", rect.Fill)
	assert.Equal(t, before+1, len(c.Log().Snapshots))
	sel, ok := c.Selected()
	require.True(t, ok, "selection survives the drag")
	assert.Equal(t, rect.ID, sel.ID)

	// Drag the free stroke by (-100, 10).
	free := c.Shapes()[1]
	assert.Equal(t, "#123456", free.Stroke)
	c.PointerDown(geom.Pt(210, 205))
	c.PointerMove(geom.Pt(110, 215))
	c.PointerUp(geom.Pt(110, 215))
	moved := c.Shapes()[1]
	require.Len(t, moved.Points, len(free.Points))
	for i := range free.Points {
		assert.Equal(t, free.Points[i].Add(geom.Pt(-100, 10)), moved.Points[i])
	}
}

func TestDragWithoutPointerUpIsRecorded(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(10, 10), geom.Pt(50, 30))

	c.PointerDown(geom.Pt(15, 15))
	c.PointerMove(geom.Pt(205, 105))
	// The pointer-up is lost; the next press lands on empty space.
	c.PointerDown(geom.Pt(400, 400))

	assert.Equal(t, ModeIdle, c.Mode())
	require.Len(t, c.Log().Snapshots, 2)
	assert.Equal(t, geom.Pt(200, 100), c.Shapes()[0].Start)

	c.Undo()
	assert.Equal(t, geom.Pt(10, 10), c.Shapes()[0].Start)
}

func TestCircleRestyleUndoScenario(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindCircle, geom.Pt(100, 100), geom.Pt(130, 100))

	circle := c.Shapes()[0]
	subs := circle.Path().Subpaths()
	require.Len(t, subs, 1)
	assert.Equal(t, geom.Pt(100, 100), subs[0].Center)
	assert.Equal(t, 30.0, subs[0].Radius)

	c.PointerDown(geom.Pt(100, 100))
	c.PointerUp(geom.Pt(100, 100))
	_, ok := c.Selected()
	require.True(t, ok)

	c.SetLineWidth(8)
	assert.Equal(t, 8.0, c.Shapes()[0].LineWidth)

	c.Undo()
	require.Len(t, c.Shapes(), 1)
	assert.Equal(t, 2.0, c.Shapes()[0].LineWidth)
	_, ok = c.Selected()
	assert.False(t, ok, "undo clears selection")

	c.Undo()
	assert.Empty(t, c.Shapes())
	assert.False(t, c.CanUndo())
}

func TestRestyleWithoutSelectionSetsDefaults(t *testing.T) {
	c, _ := newTestController(t)
	c.SetStroke("#ff0000")
	c.SetFill("#00ff00")
	c.SetLineWidth(5)
	c.SetLineWidth(-1)
	assert.Equal(t, Style{Stroke: "#ff0000", Fill: "#00ff00", LineWidth: 5}, c.Style())
	assert.Empty(t, c.Log().Snapshots)

	draw(c, state.KindLine, geom.Pt(0, 0), geom.Pt(10, 10))
	s := c.Shapes()[0]
	assert.Equal(t, "#ff0000", s.Stroke)
	assert.Equal(t, "#00ff00", s.Fill)
	assert.Equal(t, 5.0, s.LineWidth)
}

func TestUndoRedoLinearity(t *testing.T) {
	c, _ := newTestController(t)
	for i := 0; i < 3; i++ {
		x := float64(i * 100)
		draw(c, state.KindRect, geom.Pt(x, 0), geom.Pt(x+50, 50))
	}
	full := c.Shapes()

	c.Undo()
	c.Redo()
	assert.Equal(t, len(full), len(c.Shapes()))

	for i := 0; i < 4; i++ {
		c.Undo()
	}
	assert.Empty(t, c.Shapes())

	c.Redo()
	assert.Len(t, c.Shapes(), 1)
	c.Redo()
	c.Redo()
	c.Redo()
	assert.Len(t, c.Shapes(), 3)
	assert.False(t, c.CanRedo())
}

func TestRedoBranchDiscardedByNewCommit(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))
	draw(c, state.KindCircle, geom.Pt(50, 50), geom.Pt(60, 50))
	c.Undo()
	draw(c, state.KindLine, geom.Pt(100, 100), geom.Pt(120, 120))

	for _, snap := range c.Log().Snapshots {
		for _, s := range snap {
			assert.NotEqual(t, state.KindCircle, s.Type)
		}
	}
	before := c.Shapes()
	c.Redo()
	assert.Equal(t, before, c.Shapes())
}

func TestClearResetsHistory(t *testing.T) {
	c, r := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))
	c.PointerDown(geom.Pt(5, 5))
	c.PointerUp(geom.Pt(5, 5))

	c.Clear()
	assert.Empty(t, c.Shapes())
	assert.Empty(t, c.Log().Snapshots)
	assert.Equal(t, -1, c.Log().Cursor)
	assert.Zero(t, r.last().Selected)
	assert.False(t, c.CanUndo())
}

func TestHoverTracking(t *testing.T) {
	c, r := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))

	c.PointerMove(geom.Pt(5, 5))
	assert.Equal(t, int64(1), r.last().Hovered)
	n := len(r.frames)
	c.PointerMove(geom.Pt(6, 6))
	assert.Equal(t, n, len(r.frames), "unchanged hover does not redraw")
	c.PointerMove(geom.Pt(50, 50))
	assert.Zero(t, r.last().Hovered)
	assert.Empty(t, c.Log().Snapshots[1:], "hover never records history")
}

func TestNoSurfaceIsNoop(t *testing.T) {
	c := New()
	c.SetTool(state.KindRect)
	c.PointerDown(geom.Pt(0, 0))
	c.PointerMove(geom.Pt(10, 10))
	c.PointerUp(geom.Pt(10, 10))
	assert.Empty(t, c.Shapes())
	assert.Equal(t, ModeIdle, c.Mode())
	assert.False(t, c.HandleKey(KeyEvent{Key: "z", Ctrl: true}))

	r := &recorder{}
	c.Attach(r)
	require.NotEmpty(t, r.frames)
	assert.Equal(t, state.KindRect, r.last().Tool)
	c.PointerDown(geom.Pt(0, 0))
	c.PointerUp(geom.Pt(10, 10))
	assert.Len(t, c.Shapes(), 1)
}

func TestHandleKey(t *testing.T) {
	c, _ := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))

	assert.True(t, c.HandleKey(KeyEvent{Key: "z", Ctrl: true}))
	assert.Empty(t, c.Shapes())
	assert.True(t, c.HandleKey(KeyEvent{Key: "Z", Meta: true, Shift: true}))
	assert.Len(t, c.Shapes(), 1)
	assert.False(t, c.HandleKey(KeyEvent{Key: "z"}))
	assert.False(t, c.HandleKey(KeyEvent{Key: "y", Ctrl: true}))
}

func TestCancel(t *testing.T) {
	c, r := newTestController(t)
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))

	c.PointerDown(geom.Pt(5, 5))
	c.PointerMove(geom.Pt(55, 55))
	assert.True(t, c.HandleKey(KeyEvent{Key: "Escape"}))
	assert.Equal(t, geom.Pt(0, 0), c.Shapes()[0].Start, "cancelled drag snaps back")
	_, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, ModeIdle, c.Mode())

	c.SetTool(state.KindRect)
	c.PointerDown(geom.Pt(100, 100))
	c.PointerMove(geom.Pt(120, 120))
	c.Cancel()
	assert.Nil(t, r.last().Preview)
	c.PointerUp(geom.Pt(120, 120))
	assert.Len(t, c.Shapes(), 1, "pointer-up after cancel commits nothing")
}

func TestUnknownToolIgnored(t *testing.T) {
	c, _ := newTestController(t)
	c.SetTool(state.KindLine)
	c.SetTool("hexagon")
	assert.Equal(t, state.KindLine, c.Tool())
}

func TestRestore(t *testing.T) {
	rect := state.Shape{ID: 41, Type: state.KindRect, Start: geom.Pt(0, 0), End: geom.Pt(10, 10), Stroke: "#000", Fill: "#fff", LineWidth: 2}
	moved := rect
	moved.End = geom.Pt(20, 20)
	l := state.Log{Snapshots: []state.Snapshot{{rect}, {moved}}, Cursor: 0}

	var saved []state.Shape
	c, _ := newTestController(t, WithChangeHook(func(board []state.Shape, _ state.Log) { saved = board }))
	c.Restore(l)

	require.Len(t, c.Shapes(), 1)
	assert.Equal(t, geom.Pt(10, 10), c.Shapes()[0].End)
	assert.True(t, c.CanRedo())
	assert.Equal(t, c.Shapes(), saved)

	draw(c, state.KindLine, geom.Pt(50, 50), geom.Pt(60, 60))
	assert.Equal(t, int64(42), c.Shapes()[1].ID, "new ids continue after restored ones")
}

func TestChangeHookSeesEveryBoardChange(t *testing.T) {
	var calls int
	var lastLog state.Log
	c, _ := newTestController(t, WithChangeHook(func(_ []state.Shape, l state.Log) {
		calls++
		lastLog = l
	}))
	draw(c, state.KindRect, geom.Pt(0, 0), geom.Pt(10, 10))
	assert.Equal(t, 1, calls)
	assert.Len(t, lastLog.Snapshots, 1)

	c.PointerDown(geom.Pt(5, 5))
	c.PointerMove(geom.Pt(6, 6))
	c.PointerMove(geom.Pt(7, 7))
	c.PointerUp(geom.Pt(7, 7))
	assert.Equal(t, 4, calls, "two live moves and the drag-end snapshot")
	assert.Len(t, lastLog.Snapshots, 2)
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want Command
	}{
		{KeyEvent{Key: "z", Ctrl: true}, CommandUndo},
		{KeyEvent{Key: "z", Meta: true}, CommandUndo},
		{KeyEvent{Key: "z", Ctrl: true, Shift: true}, CommandRedo},
		{KeyEvent{Key: "Z", Meta: true, Shift: true}, CommandRedo},
		{KeyEvent{Key: "z", Shift: true}, CommandNone},
		{KeyEvent{Key: "x", Ctrl: true}, CommandNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommandFor(tt.ev), "%+v", tt.ev)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "painting-free", ModePaintingFree.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
