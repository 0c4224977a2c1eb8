package viewer

import (
	"fmt"
	"image/color"
	"slices"
)

type fakeSeries struct {
	id    string
	color color.Color
	x, y  []float64
}

func (s *fakeSeries) ID() string { return s.id }

func (s *fakeSeries) SetData(x, y []float64) {
	s.x = slices.Clone(x)
	s.y = slices.Clone(y)
}

type fakePlot struct {
	next    int
	series  []*fakeSeries
	removed []string
}

func (p *fakePlot) AddSeries(c color.Color) Series {
	s := &fakeSeries{id: fmt.Sprintf("series-%d", p.next), color: c}
	p.next++
	p.series = append(p.series, s)
	return s
}

func (p *fakePlot) RemoveSeries(s Series) {
	p.removed = append(p.removed, s.ID())
	p.series = slices.DeleteFunc(p.series, func(fs *fakeSeries) bool { return fs.ID() == s.ID() })
}

type legendItem struct {
	series Series
	label  string
}

type fakeLegend struct {
	items []legendItem
}

func (l *fakeLegend) AddItem(s Series, label string) error {
	l.items = append(l.items, legendItem{series: s, label: label})
	return nil
}

func (l *fakeLegend) RemoveItem(label string) error {
	i := slices.IndexFunc(l.items, func(it legendItem) bool { return it.label == label })
	if i < 0 {
		return fmt.Errorf("no legend item %q", label)
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

func (l *fakeLegend) Items() []string {
	out := make([]string, len(l.items))
	for i, it := range l.items {
		out[i] = it.label
	}
	return out
}

type fakeReadout struct {
	texts   []string
	visible bool
}

func (r *fakeReadout) SetItems(texts []string) {
	r.texts = slices.Clone(texts)
}

func (r *fakeReadout) SetItem(i int, text string) error {
	if i < 0 || i >= len(r.texts) {
		return fmt.Errorf("no readout item %d", i)
	}
	r.texts[i] = text
	return nil
}

func (r *fakeReadout) SetVisible(visible bool) {
	r.visible = visible
}

// panicPlot panics whenever a series is added.
type panicPlot struct {
	fakePlot
}

func (p *panicPlot) AddSeries(c color.Color) Series {
	panic("surface gone")
}
