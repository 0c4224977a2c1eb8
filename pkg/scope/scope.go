package scope

import (
	"fmt"
	"image/color"
	"slices"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/scalarscope/pkg/sample"
	"github.com/itohio/scalarscope/pkg/viewer"
)

var (
	_ viewer.PlotSurface = (*ScopeWidget)(nil)
	_ viewer.Legend      = (*ScopeWidget)(nil)
	_ viewer.Series      = (*Series)(nil)
)

// DefaultMaxDisplayPoints limits the points drawn per series.
const DefaultMaxDisplayPoints = 1000

// ScopeWidget is a custom Fyne widget that plots scalar channels against the event index.
type ScopeWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu     sync.RWMutex
	series []*Series
	legend []legendEntry
	nextID int

	// Auto-scaling
	xMin, xMax float64
	yMin, yMax float64

	// Display settings
	maxDisplayPoints int
}

type legendEntry struct {
	series *Series
	label  string
}

// Series is one curve of a ScopeWidget.
type Series struct {
	scope *ScopeWidget
	id    string
	color color.Color

	// Display buffers (reused for decimation)
	x, y []float64
}

// New creates a new ScopeWidget instance.
func New(maxDisplayPoints int) *ScopeWidget {
	if maxDisplayPoints <= 0 {
		maxDisplayPoints = DefaultMaxDisplayPoints
	}
	s := &ScopeWidget{
		series:           make([]*Series, 0),
		legend:           make([]legendEntry, 0),
		maxDisplayPoints: maxDisplayPoints,
	}
	s.updateAutoScale()
	s.ExtendBaseWidget(s)
	return s
}

// AddSeries creates an empty curve drawn in color c.
func (s *ScopeWidget) AddSeries(c color.Color) viewer.Series {
	s.mu.Lock()
	ser := &Series{
		scope: s,
		id:    fmt.Sprintf("series-%d", s.nextID),
		color: c,
		x:     make([]float64, 0, s.maxDisplayPoints),
		y:     make([]float64, 0, s.maxDisplayPoints),
	}
	s.nextID++
	s.series = append(s.series, ser)
	s.mu.Unlock()

	s.Refresh()
	return ser
}

// RemoveSeries removes a curve and its legend entries.
func (s *ScopeWidget) RemoveSeries(vs viewer.Series) {
	s.mu.Lock()
	s.series = slices.DeleteFunc(s.series, func(ser *Series) bool { return ser.id == vs.ID() })
	s.legend = slices.DeleteFunc(s.legend, func(e legendEntry) bool { return e.series.id == vs.ID() })
	s.updateAutoScale()
	s.mu.Unlock()

	s.Refresh()
}

// SeriesCount returns the number of curves.
func (s *ScopeWidget) SeriesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// AddItem adds a legend entry for a curve of this widget.
func (s *ScopeWidget) AddItem(vs viewer.Series, label string) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.series, func(ser *Series) bool { return ser.id == vs.ID() })
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("series %s is not plotted", vs.ID())
	}
	s.legend = append(s.legend, legendEntry{series: s.series[i], label: label})
	s.mu.Unlock()

	s.Refresh()
	return nil
}

// RemoveItem removes the legend entry with the given label.
func (s *ScopeWidget) RemoveItem(label string) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.legend, func(e legendEntry) bool { return e.label == label })
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("no legend entry %q", label)
	}
	s.legend = slices.Delete(s.legend, i, i+1)
	s.mu.Unlock()

	s.Refresh()
	return nil
}

// Items returns the legend labels in display order.
func (s *ScopeWidget) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.legend))
	for i, e := range s.legend {
		out[i] = e.label
	}
	return out
}

// ID identifies the series.
func (ser *Series) ID() string {
	return ser.id
}

// Color returns the series color.
func (ser *Series) Color() color.Color {
	return ser.color
}

// SetData replaces the curve. Long curves are decimated for display.
func (ser *Series) SetData(x, y []float64) {
	s := ser.scope
	s.mu.Lock()
	n := min(len(x), len(y))
	ser.x = sample.Decimate(ser.x, x[:n], s.maxDisplayPoints)
	ser.y = sample.Decimate(ser.y, y[:n], s.maxDisplayPoints)
	s.updateAutoScale()
	s.mu.Unlock()

	// Refresh outside the lock, the renderer takes a read lock.
	s.Refresh()
}

// Data returns a copy of the displayed points.
func (ser *Series) Data() (x, y []float64) {
	s := ser.scope
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(ser.x), slices.Clone(ser.y)
}

// updateAutoScale calculates axis ranges from current data. Caller holds mu.
func (s *ScopeWidget) updateAutoScale() {
	first := true
	for _, ser := range s.series {
		for i := range ser.x {
			if first {
				s.xMin, s.xMax = ser.x[i], ser.x[i]
				s.yMin, s.yMax = ser.y[i], ser.y[i]
				first = false
				continue
			}
			s.xMin = min(s.xMin, ser.x[i])
			s.xMax = max(s.xMax, ser.x[i])
			s.yMin = min(s.yMin, ser.y[i])
			s.yMax = max(s.yMax, ser.y[i])
		}
	}
	if first {
		s.xMin, s.xMax = 0, 1
		s.yMin, s.yMax = 0, 1
		return
	}

	// Add 10% margin
	span := s.yMax - s.yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	s.yMin -= margin
	s.yMax += margin

	if s.xMax == s.xMin {
		s.xMax = s.xMin + 1
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}
