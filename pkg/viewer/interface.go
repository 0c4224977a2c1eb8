package viewer

import "image/color"

// Series is one plotted curve.
type Series interface {
	// ID identifies the series on its surface and in the legend.
	ID() string
	SetData(x, y []float64)
}

// PlotSurface creates and destroys plotted series.
type PlotSurface interface {
	AddSeries(c color.Color) Series
	RemoveSeries(s Series)
}

// Legend maps labels to plotted series.
type Legend interface {
	AddItem(s Series, label string) error
	RemoveItem(label string) error
	Items() []string
}

// Readout shows the latest value of each channel as text.
type Readout interface {
	SetItems(texts []string)
	SetItem(i int, text string) error
	SetVisible(visible bool)
}
