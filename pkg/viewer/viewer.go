package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/itohio/scalarscope/pkg/history"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// ErrLabelCount is returned when labels do not match the number of channels.
var ErrLabelCount = errors.New("labels are not consistent with the number of data curves")

const (
	// DefaultTitle names the view in export records until SetTitle is called.
	DefaultTitle = "viewer0D"
	// DefaultHistoryLength is the initial capacity of the rolling window.
	DefaultHistoryLength = 200
	// DefaultExportBuffer is the capacity of the export channel.
	DefaultExportBuffer = 100
)

// DefaultColors is the series palette, used in channel order and repeated.
var DefaultColors = []color.Color{
	color.RGBA{R: 255, G: 255, B: 255, A: 255},
	color.RGBA{R: 255, G: 0, B: 0, A: 255},
	color.RGBA{R: 0, G: 255, B: 0, A: 255},
	color.RGBA{R: 0, G: 0, B: 255, A: 255},
	color.RGBA{R: 14, G: 207, B: 189, A: 255},
	color.RGBA{R: 207, G: 14, B: 166, A: 255},
	color.RGBA{R: 207, G: 204, B: 14, A: 255},
}

// Label returns the default label of channel i.
func Label(i int) string {
	return fmt.Sprintf("CH%02d", i)
}

// FormatValue renders a reading for the readout.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.6e", v)
}

// Options configures a Viewer0D.
type Options struct {
	Title         string
	HistoryLength int
	Colors        []color.Color
	ExportBuffer  int
}

// binding is the current channel set. It is replaced as a whole, never edited.
type binding struct {
	labels []string
	series []Series
}

// Viewer0D shows a rolling history of scalar channels.
//
// It is not safe for concurrent use; call it from the UI goroutine. Exports
// may be drained from any goroutine.
type Viewer0D struct {
	title   string
	buffer  *history.Buffer
	plot    PlotSurface
	legend  Legend
	readout Readout
	colors  []color.Color

	bound   *binding
	exports chan DataToExport

	warnedLegacy bool
	now          func() time.Time
}

// New creates a Viewer0D drawing into plot, legend and readout.
func New(plot PlotSurface, legend Legend, readout Readout, opts Options) (*Viewer0D, error) {
	if plot == nil || legend == nil || readout == nil {
		return nil, fmt.Errorf("plot, legend and readout are required")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.HistoryLength == 0 {
		opts.HistoryLength = DefaultHistoryLength
	}
	if len(opts.Colors) == 0 {
		opts.Colors = DefaultColors
	}
	if opts.ExportBuffer <= 0 {
		opts.ExportBuffer = DefaultExportBuffer
	}

	buffer, err := history.New(opts.HistoryLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create history: %w", err)
	}

	return &Viewer0D{
		title:   opts.Title,
		buffer:  buffer,
		plot:    plot,
		legend:  legend,
		readout: readout,
		colors:  opts.Colors,
		exports: make(chan DataToExport, opts.ExportBuffer),
		now:     time.Now,
	}, nil
}

// Title returns the name used in export records.
func (v *Viewer0D) Title() string {
	return v.title
}

// SetTitle changes the name used in export records.
func (v *Viewer0D) SetTitle(title string) {
	v.title = title
}

// Exports returns the channel receiving one record per successful update.
// Records are dropped when nobody drains it.
func (v *Viewer0D) Exports() <-chan DataToExport {
	return v.exports
}

// Labels returns the current channel labels.
func (v *Viewer0D) Labels() []string {
	if v.bound == nil {
		return []string{}
	}
	return slices.Clone(v.bound.labels)
}

// ChannelCount returns the number of bound channels, 0 when unbound.
func (v *Viewer0D) ChannelCount() int {
	if v.bound == nil {
		return 0
	}
	return len(v.bound.series)
}

// HistoryLength returns the capacity of the rolling window.
func (v *Viewer0D) HistoryLength() int {
	return v.buffer.Capacity()
}

// EventCount returns the number of events in the history since the last clear or rebind.
func (v *Viewer0D) EventCount() int {
	return v.buffer.EventCount()
}

// Snapshot copies what is currently plotted.
func (v *Viewer0D) Snapshot() Snapshot {
	s := Snapshot{
		Title:  v.title,
		Labels: v.Labels(),
		X:      v.buffer.XAxis(),
	}
	s.Y = make([][]float64, len(s.Labels))
	for i, l := range s.Labels {
		s.Y[i], _ = v.buffer.Data(l)
	}
	return s
}

// Submit shows one event of readings. Failures are logged and never
// returned, so a bad reading cannot break the caller's loop.
func (v *Viewer0D) Submit(in Input) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("viewer", v.title).Errorf("Panic while showing data: %v", r)
		}
	}()

	if err := v.submit(in); err != nil {
		log.WithError(err).WithField("viewer", v.title).Error("Failed to show data")
	}
}

func (v *Viewer0D) submit(in Input) error {
	var data DataFromPlugins
	switch x := in.(type) {
	case DataFromPlugins:
		data = x
	case *DataFromPlugins:
		if x == nil {
			return fmt.Errorf("nil data")
		}
		data = *x
	case Legacy:
		if !v.warnedLegacy {
			log.WithField("viewer", v.title).Warn("Submitting a bare list is deprecated, submit DataFromPlugins instead")
			v.warnedLegacy = true
		}
		var err error
		if data, err = x.toData(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported input %T", in)
	}

	n := len(data.Data)
	if n == 0 {
		return fmt.Errorf("no readings")
	}
	latest := make([]float64, n)
	values := make([]any, n)
	for i, d := range data.Data {
		f, err := history.Scalar(d)
		if err != nil {
			return fmt.Errorf("reading %d: %w", i, err)
		}
		latest[i] = f
		values[i] = f
	}

	if v.bound == nil || len(v.bound.series) != n {
		if err := v.initChannels(n, data.Labels); err != nil {
			return err
		}
	} else if len(data.Labels) > 0 && !slices.Equal(data.Labels, v.bound.labels) {
		if err := v.SetLabels(data.Labels); err != nil {
			log.WithError(err).WithField("viewer", v.title).Warn("Ignoring labels")
		}
	}

	readings, err := history.Zip(v.bound.labels, values)
	if err != nil {
		return err
	}
	if err := v.buffer.AddDatas(readings); err != nil {
		return fmt.Errorf("failed to add readings: %w", err)
	}

	v.updateReadout(latest)
	v.updatePlots()
	v.export(latest)
	return nil
}

// initChannels replaces the channel set with n fresh series.
func (v *Viewer0D) initChannels(n int, labels []string) error {
	if len(labels) != n {
		labels = defaultLabels(n)
	}
	if err := v.buffer.Reset(labels); err != nil {
		log.WithError(err).WithField("viewer", v.title).Warn("Ignoring labels")
		labels = defaultLabels(n)
		if err := v.buffer.Reset(labels); err != nil {
			return err
		}
	}

	v.teardown()

	series := make([]Series, n)
	for i := range series {
		series[i] = v.plot.AddSeries(v.colors[i%len(v.colors)])
	}
	v.bound = &binding{labels: slices.Clone(labels), series: series}

	v.readout.SetItems(make([]string, n))
	v.reconcileLegend()

	log.WithFields(logrus.Fields{
		"viewer":   v.title,
		"channels": n,
	}).Debug("Channels created")
	return nil
}

// teardown removes the current series from the legend and the surface.
func (v *Viewer0D) teardown() {
	if v.bound == nil {
		return
	}
	for i, s := range v.bound.series {
		if err := v.legend.RemoveItem(v.bound.labels[i]); err != nil {
			log.WithError(err).WithField("viewer", v.title).Warn("Failed to remove legend item")
		}
		v.plot.RemoveSeries(s)
	}
	v.bound = nil
}

// reconcileLegend rebuilds the legend from the current binding.
func (v *Viewer0D) reconcileLegend() {
	for _, item := range v.legend.Items() {
		if err := v.legend.RemoveItem(item); err != nil {
			log.WithError(err).WithField("viewer", v.title).Warn("Failed to remove legend item")
		}
	}
	if v.bound == nil {
		log.WithField("viewer", v.title).Warn("Plot channels not yet declared")
		return
	}
	for i, s := range v.bound.series {
		if err := v.legend.AddItem(s, v.bound.labels[i]); err != nil {
			log.WithError(err).WithField("viewer", v.title).Warn("Failed to add legend item")
		}
	}
}

// SetLabels renames the channels. The history of each channel is kept.
func (v *Viewer0D) SetLabels(labels []string) error {
	if len(labels) != v.ChannelCount() {
		return fmt.Errorf("%w: %d labels for %d curves", ErrLabelCount, len(labels), v.ChannelCount())
	}
	if v.bound == nil {
		return nil
	}
	if err := v.buffer.RenameKeys(labels); err != nil {
		return fmt.Errorf("failed to rename channels: %w", err)
	}
	v.bound = &binding{labels: slices.Clone(labels), series: v.bound.series}
	v.reconcileLegend()
	return nil
}

// SetHistoryLength changes the capacity of the rolling window.
func (v *Viewer0D) SetHistoryLength(n int) error {
	if err := v.buffer.UpdateHistoryLength(n); err != nil {
		return err
	}
	v.updatePlots()
	return nil
}

// Clear empties the history and the plotted curves. Channels and labels stay.
func (v *Viewer0D) Clear() {
	v.buffer.ClearData()
	if v.bound == nil {
		return
	}
	for _, s := range v.bound.series {
		s.SetData([]float64{}, []float64{})
	}
}

// ShowDataList toggles the textual readout.
func (v *Viewer0D) ShowDataList(visible bool) {
	v.readout.SetVisible(visible)
}

// UpdateStatus reports a status message.
func (v *Viewer0D) UpdateStatus(text string) {
	log.WithField("viewer", v.title).Info(text)
}

func (v *Viewer0D) updateReadout(latest []float64) {
	for i, f := range latest {
		if err := v.readout.SetItem(i, FormatValue(f)); err != nil {
			log.WithError(err).WithField("viewer", v.title).Warn("Failed to update readout")
		}
	}
}

func (v *Viewer0D) updatePlots() {
	if v.bound == nil {
		return
	}
	x := v.buffer.XAxis()
	for i, s := range v.bound.series {
		y, _ := v.buffer.Data(v.bound.labels[i])
		s.SetData(x, y)
	}
}

func (v *Viewer0D) export(latest []float64) {
	rec := DataToExport{
		Name:    v.title,
		Data0D:  make(map[string]Data0D, len(latest)),
		AcqTime: v.now(),
	}
	for i, f := range latest {
		rec.Data0D[v.bound.labels[i]] = Data0D{Value: f, Source: SourceRaw}
	}

	select {
	case v.exports <- rec:
	default:
		log.WithField("viewer", v.title).Warn("Export channel full, dropping record")
	}
}

func defaultLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = Label(i)
	}
	return labels
}
