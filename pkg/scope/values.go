package scope

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/scalarscope/pkg/viewer"
)

var _ viewer.Readout = (*ValuesList)(nil)

// ValuesList shows the latest value of every channel as a list of text rows.
type ValuesList struct {
	mu    sync.RWMutex
	items []string
	list  *widget.List
}

// NewValuesList creates an empty, visible list.
func NewValuesList() *ValuesList {
	l := &ValuesList{}
	l.list = widget.NewList(
		l.length,
		func() fyne.CanvasObject {
			return widget.NewLabel("CH00: -0.000000e+00")
		},
		l.update,
	)
	return l
}

// Object returns the canvas object to place in a layout.
func (l *ValuesList) Object() fyne.CanvasObject {
	return l.list
}

// SetItems replaces all rows.
func (l *ValuesList) SetItems(items []string) {
	l.mu.Lock()
	l.items = append(l.items[:0], items...)
	l.mu.Unlock()

	l.list.Refresh()
}

// SetItem replaces row i.
func (l *ValuesList) SetItem(i int, text string) error {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		n := len(l.items)
		l.mu.Unlock()
		return fmt.Errorf("row %d out of range [0, %d)", i, n)
	}
	l.items[i] = text
	l.mu.Unlock()

	l.list.RefreshItem(i)
	return nil
}

// SetVisible shows or hides the list.
func (l *ValuesList) SetVisible(visible bool) {
	if visible {
		l.list.Show()
	} else {
		l.list.Hide()
	}
}

// Visible reports whether the list is shown.
func (l *ValuesList) Visible() bool {
	return l.list.Visible()
}

// Items returns a copy of the rows.
func (l *ValuesList) Items() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ValuesList) length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *ValuesList) update(id widget.ListItemID, o fyne.CanvasObject) {
	l.mu.RLock()
	text := ""
	if id >= 0 && id < len(l.items) {
		text = l.items[id]
	}
	l.mu.RUnlock()

	o.(*widget.Label).SetText(text)
}
