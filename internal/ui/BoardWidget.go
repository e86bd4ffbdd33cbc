package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"ShapeBoard/internal/editor"
	"ShapeBoard/internal/geom"
	"ShapeBoard/internal/state"
)

var (
	selectionColor = color.NRGBA{R: 255, A: 255}
	hoverColor     = color.NRGBA{R: 120, G: 120, B: 120, A: 160}
)

// BoardWidget is the drawing area. It forwards pointer input to the
// controller and draws whatever frame the controller last rendered.
type BoardWidget struct {
	widget.BaseWidget
	ctrl *editor.Controller

	mu      sync.RWMutex
	frame   editor.Frame
	lastPos geom.Point

	// OnRender runs after every frame. It runs while the controller is
	// busy and must not call back into it.
	OnRender func(editor.Frame)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ editor.Surface = (*BoardWidget)(nil)

func NewBoardWidget(ctrl *editor.Controller) *BoardWidget {
	b := &BoardWidget{ctrl: ctrl}
	b.ExtendBaseWidget(b)
	return b
}

// Render implements editor.Surface.
func (b *BoardWidget) Render(fr editor.Frame) {
	b.mu.Lock()
	b.frame = fr
	b.mu.Unlock()
	if b.OnRender != nil {
		b.OnRender(fr)
	}
	b.Refresh()
}

func (b *BoardWidget) currentFrame() editor.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

func toPos(p geom.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

func (b *BoardWidget) track(p fyne.Position) geom.Point {
	pt := toPoint(p)
	b.mu.Lock()
	b.lastPos = pt
	b.mu.Unlock()
	return pt
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.ctrl.PointerDown(b.track(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.ctrl.PointerUp(b.track(e.Position))
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.ctrl.PointerMove(b.track(e.Position))
}

// DragEnd closes the gesture at the last dragged position. When MouseUp
// already did, the controller is idle and this is a no-op.
func (b *BoardWidget) DragEnd() {
	b.mu.RLock()
	p := b.lastPos
	b.mu.RUnlock()
	b.ctrl.PointerUp(p)
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.ctrl.PointerMove(b.track(e.Position))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                   {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	fr := r.board.currentFrame()
	size := r.board.Size()

	shapes := fr.Shapes
	if fr.Preview != nil {
		shapes = append(shapes[:len(shapes):len(shapes)], *fr.Preview)
	}

	objects := []fyne.CanvasObject{r.background, r.fillLayer(shapes, size)}
	for _, s := range shapes {
		objects = append(objects, outline(s, colorOr(s.Stroke, color.Black), float32(s.LineWidth))...)
	}
	for _, s := range fr.Shapes {
		switch s.ID {
		case fr.Selected:
			objects = append(objects, outline(s, selectionColor, float32(s.LineWidth)+2)...)
		case fr.Hovered:
			objects = append(objects, boundsBox(s))
		}
	}
	return objects
}

// fillLayer paints interiors pixel by pixel from path containment, topmost
// shape first, so shapes dragged out in any direction fill the same way.
func (r *boardWidgetRenderer) fillLayer(shapes []state.Shape, size fyne.Size) fyne.CanvasObject {
	type filled struct {
		path  geom.Path
		color color.Color
	}
	var layers []filled
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if s.Type == state.KindFree {
			continue
		}
		c, ok := parseColor(s.Fill)
		if !ok || c.A == 0 {
			continue
		}
		layers = append(layers, filled{path: s.Path(), color: c})
	}

	raster := canvas.NewRasterWithPixels(func(x, y, w, h int) color.Color {
		if w == 0 || h == 0 {
			return color.Transparent
		}
		pt := geom.Pt(float64(x)*float64(size.Width)/float64(w), float64(y)*float64(size.Height)/float64(h))
		for _, l := range layers {
			if l.path.Contains(pt) {
				return l.color
			}
		}
		return color.Transparent
	})
	raster.Resize(size)
	return raster
}

func outline(s state.Shape, c color.Color, width float32) []fyne.CanvasObject {
	var objects []fyne.CanvasObject
	for _, sp := range s.Path().Subpaths() {
		switch {
		case sp.IsCircle:
			circle := canvas.NewCircle(color.Transparent)
			circle.StrokeColor = c
			circle.StrokeWidth = width
			r := float32(sp.Radius)
			circle.Move(fyne.NewPos(float32(sp.Center.X)-r, float32(sp.Center.Y)-r))
			circle.Resize(fyne.NewSize(2*r, 2*r))
			objects = append(objects, circle)
		case len(sp.Points) == 1:
			dot := canvas.NewCircle(c)
			p := sp.Points[0]
			dot.Move(fyne.NewPos(float32(p.X)-width/2, float32(p.Y)-width/2))
			dot.Resize(fyne.NewSize(width, width))
			objects = append(objects, dot)
		default:
			pts := sp.Points
			if sp.Closed {
				pts = append(pts[:len(pts):len(pts)], pts[0])
			}
			for i := 0; i < len(pts)-1; i++ {
				segment := canvas.NewLine(c)
				segment.StrokeWidth = width
				segment.Position1 = toPos(pts[i])
				segment.Position2 = toPos(pts[i+1])
				objects = append(objects, segment)
			}
		}
	}
	return objects
}

func boundsBox(s state.Shape) fyne.CanvasObject {
	pad := s.LineWidth/2 + 2
	rect := s.Path().Bounds().Inflate(pad, pad)
	box := canvas.NewRectangle(color.Transparent)
	box.StrokeColor = hoverColor
	box.StrokeWidth = 1
	box.Move(fyne.NewPos(float32(rect.X0), float32(rect.Y0)))
	box.Resize(fyne.NewSize(float32(rect.Width()), float32(rect.Height())))
	return box
}

func (r *boardWidgetRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}
