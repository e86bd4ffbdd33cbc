package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"ShapeBoard/internal/editor"
)

// NewWindow builds the editor window around ctrl and attaches the board
// widget as its surface.
func NewWindow(a fyne.App, ctrl *editor.Controller, size fyne.Size) fyne.Window {
	w := a.NewWindow("ShapeBoard")
	w.Resize(size)

	board := NewBoardWidget(ctrl)
	toolbar := NewToolbar(ctrl)
	board.OnRender = toolbar.Sync

	bindShortcuts(w.Canvas(), ctrl)

	w.SetContent(container.NewBorder(toolbar.Object(), toolbar.Status(), nil, nil, board))
	ctrl.Attach(board)
	return w
}

func RunApp(a fyne.App, ctrl *editor.Controller, size fyne.Size) {
	NewWindow(a, ctrl, size).ShowAndRun()
}

func bindShortcuts(c fyne.Canvas, ctrl *editor.Controller) {
	mod := fyne.KeyModifierShortcutDefault
	key := func(shift bool) editor.KeyEvent {
		return editor.KeyEvent{
			Key:   string(fyne.KeyZ),
			Ctrl:  mod == fyne.KeyModifierControl,
			Meta:  mod == fyne.KeyModifierSuper,
			Shift: shift,
		}
	}
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}, func(fyne.Shortcut) {
		ctrl.HandleKey(key(false))
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		ctrl.HandleKey(key(true))
	})
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			ctrl.HandleKey(editor.KeyEvent{Key: "Escape"})
		}
	})
}
