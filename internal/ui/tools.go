package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ShapeBoard/internal/editor"
	"ShapeBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var palette = []color.Color{
	color.Black,
	color.White,
	color.NRGBA{R: 255, A: 255},         // Red
	color.NRGBA{G: 255, A: 255},         // Green
	color.NRGBA{B: 255, A: 255},         // Blue
	color.NRGBA{R: 255, G: 255, A: 255}, // Yellow
}

func swatchRow(tapped func(color.Color)) *fyne.Container {
	row := container.NewHBox()
	for _, c := range palette {
		row.Add(newColorSwatch(c, tapped))
	}
	return row
}

// Toolbar holds the controls and keeps them in step with rendered frames.
type Toolbar struct {
	ctrl   *editor.Controller
	shapes *widget.Select
	undo   *widget.Button
	redo   *widget.Button
	status *widget.Label
	width  *widget.Slider
	// chip previews the stroke and fill of the selected shape.
	chip   *canvas.Rectangle
	object fyne.CanvasObject
}

func shapeOptions() []string {
	var opts []string
	for _, k := range state.Kinds {
		if k != state.KindFree {
			opts = append(opts, string(k))
		}
	}
	return opts
}

func NewToolbar(ctrl *editor.Controller) *Toolbar {
	t := &Toolbar{ctrl: ctrl, status: widget.NewLabel("Ready")}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			ctrl.SetTool(state.KindFree)
		}), // Pen
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() {
			ctrl.SetTool(state.KindNone)
		}), // Select
		widget.NewToolbarAction(theme.DeleteIcon(), ctrl.Clear),
	)

	t.shapes = widget.NewSelect(shapeOptions(), func(s string) {
		// Cleared by sync after a commit.
		if s != "" {
			ctrl.SetTool(state.Kind(s))
		}
	})
	t.shapes.PlaceHolder = "Shape"

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), ctrl.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), ctrl.Redo)
	t.undo.Disable()
	t.redo.Disable()

	strokeBox := swatchRow(func(c color.Color) { ctrl.SetStroke(toHex(c)) })
	fillBox := swatchRow(func(c color.Color) { ctrl.SetFill(toHex(c)) })

	style := ctrl.Style()
	t.width = widget.NewSlider(1.0, 20.0)
	t.width.SetValue(style.LineWidth)
	t.width.OnChangeEnded = ctrl.SetLineWidth
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.width)

	t.chip = canvas.NewRectangle(colorOr(style.Fill, color.White))
	t.chip.StrokeColor = colorOr(style.Stroke, color.Black)
	t.chip.StrokeWidth = 3
	t.chip.SetMinSize(fyne.NewSize(24, 24))

	t.object = container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		t.shapes,
		widget.NewSeparator(),
		t.undo,
		t.redo,
		widget.NewSeparator(),
		widget.NewLabel("Stroke:"),
		strokeBox,
		widget.NewLabel("Fill:"),
		fillBox,
		t.chip,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
	return t
}

func (t *Toolbar) Object() fyne.CanvasObject { return t.object }

func (t *Toolbar) Status() *widget.Label { return t.status }

// Sync updates the controls for fr. It is called from BoardWidget.OnRender
// and only touches widgets.
func (t *Toolbar) Sync(fr editor.Frame) {
	setEnabled(t.undo, fr.CanUndo)
	setEnabled(t.redo, fr.CanRedo)
	if string(fr.Tool) != t.shapes.Selected && t.shapes.Selected != "" {
		t.shapes.ClearSelected()
	}

	if fr.Selected != 0 {
		for _, s := range fr.Shapes {
			if s.ID == fr.Selected {
				t.showStyle(s)
				break
			}
		}
	}

	tool := string(fr.Tool)
	if fr.Tool == state.KindNone {
		tool = "select"
	}
	t.status.SetText(fmt.Sprintf("%s | %d shapes", tool, len(fr.Shapes)))
}

// showStyle points the width slider and style chip at s. SetValue only
// fires OnChanged, so the controller is not called back.
func (t *Toolbar) showStyle(s state.Shape) {
	if t.width.Value != s.LineWidth {
		t.width.SetValue(s.LineWidth)
	}
	t.chip.FillColor = colorOr(s.Fill, color.Transparent)
	t.chip.StrokeColor = colorOr(s.Stroke, color.Black)
	t.chip.Refresh()
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
