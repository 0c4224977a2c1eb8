package scope

import (
	"image/color"
	"math"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"
)

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	bg *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plotArea maps data coordinates into widget coordinates.
type plotArea struct {
	x, y, width, height float32
	xMin, xMax         float64
	yMin, yMax         float64
}

// point converts a data point to a position clamped to the plot area.
func (a plotArea) point(x, y float64) fyne.Position {
	fx := float32((x - a.xMin) / (a.xMax - a.xMin))
	fy := float32((y - a.yMin) / (a.yMax - a.yMin))
	px := a.x + clamp01(fx)*a.width
	py := a.y + a.height - clamp01(fy)*a.height
	return fyne.NewPos(px, py)
}

func clamp01(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return math32.Max(0, math32.Min(1, v))
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.bg.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds all lines and texts from the current series.
func (r *scopeRenderer) Refresh() {
	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.scope.mu.RLock()
	defer r.scope.mu.RUnlock()

	// Clear old objects (but keep background)
	r.objects = []fyne.CanvasObject{r.bg}

	// Calculate margins
	marginLeft := float32(70.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	area := plotArea{
		x:      marginLeft,
		y:      marginTop,
		width:  math32.Max(size.Width-marginLeft-marginRight, 1),
		height: math32.Max(size.Height-marginTop-marginBottom, 1),
		xMin:   r.scope.xMin,
		xMax:   r.scope.xMax,
		yMin:   r.scope.yMin,
		yMax:   r.scope.yMax,
	}

	r.drawGrid(area)
	for _, ser := range r.scope.series {
		r.drawSeries(area, ser)
	}
	r.drawLegend(area)

	canvas.Refresh(r.bg)
}

// drawGrid draws the oscilloscope-style grid with axis labels.
func (r *scopeRenderer) drawGrid(a plotArea) {
	numHLines := 8
	for i := range numHLines + 1 {
		y := a.y + float32(i)*a.height/float32(numHLines)
		r.addLine(fyne.NewPos(a.x, y), fyne.NewPos(a.x+a.width, y), gridColor, 1)

		value := a.yMax - float64(i)*(a.yMax-a.yMin)/float64(numHLines)
		text := canvas.NewText(formatTick(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(a.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	numVLines := 10
	for i := range numVLines + 1 {
		x := a.x + float32(i)*a.width/float32(numVLines)
		r.addLine(fyne.NewPos(x, a.y), fyne.NewPos(x, a.y+a.height), gridColor, 1)

		value := a.xMin + float64(i)*(a.xMax-a.xMin)/float64(numVLines)
		text := canvas.NewText(formatTick(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, a.y+a.height+5))
		r.objects = append(r.objects, text)
	}
}

// drawSeries draws one curve as connected segments.
func (r *scopeRenderer) drawSeries(a plotArea, ser *Series) {
	if len(ser.x) < 2 {
		return
	}

	prev := a.point(ser.x[0], ser.y[0])
	for i := 1; i < len(ser.x); i++ {
		next := a.point(ser.x[i], ser.y[i])
		r.addLine(prev, next, ser.color, 1.5)
		prev = next
	}
}

// drawLegend draws one swatch and label per legend entry in the top left corner.
func (r *scopeRenderer) drawLegend(a plotArea) {
	const rowHeight = float32(16)
	for i, e := range r.scope.legend {
		y := a.y + 8 + float32(i)*rowHeight
		r.addLine(fyne.NewPos(a.x+10, y), fyne.NewPos(a.x+28, y), e.series.color, 3)

		text := canvas.NewText(e.label, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		text.TextSize = 11
		text.Alignment = fyne.TextAlignLeading
		text.Move(fyne.NewPos(a.x+34, y-8))
		r.objects = append(r.objects, text)
	}
}

func (r *scopeRenderer) addLine(p1, p2 fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.Position1 = p1
	line.Position2 = p2
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// formatTick formats an axis label compactly.
func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
