// Package snapshot renders what a viewer shows into PNG images.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"

	"github.com/itohio/scalarscope/pkg/viewer"
)

var log = logrus.StandardLogger()

// ErrTooFewPoints is returned when there is nothing to draw a line through.
var ErrTooFewPoints = errors.New("at least two events are needed for a snapshot")

// Options controls the rendered image.
type Options struct {
	Width  int
	Height int
	Colors []color.Color
}

// Render writes snap as a PNG line chart, one series per channel.
func Render(w io.Writer, snap viewer.Snapshot, opts Options) error {
	if len(snap.X) < 2 {
		return ErrTooFewPoints
	}

	series := make([]chart.Series, 0, len(snap.Labels))
	yMin, yMax := 0.0, 0.0
	first := true
	for i, label := range snap.Labels {
		if i >= len(snap.Y) {
			break
		}
		s := chart.ContinuousSeries{
			Name:    label,
			XValues: snap.X,
			YValues: snap.Y[i],
		}
		if len(opts.Colors) > 0 {
			s.Style = chart.Style{
				Show:        true,
				StrokeColor: toDrawing(opts.Colors[i%len(opts.Colors)]),
				StrokeWidth: 1.5,
			}
		}
		series = append(series, s)

		for _, v := range snap.Y[i] {
			if first {
				yMin, yMax = v, v
				first = false
				continue
			}
			yMin = min(yMin, v)
			yMax = max(yMax, v)
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("no channels to draw")
	}

	graph := chart.Chart{
		Title:      snap.Title,
		TitleStyle: chart.StyleShow(),
		Width:      opts.Width,
		Height:     opts.Height,
		Series:     series,
		XAxis: chart.XAxis{
			Name:      "Event",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "Value",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
	}
	// A flat line has no range for the axis to derive.
	if yMin == yMax {
		graph.YAxis.Range = &chart.ContinuousRange{Min: yMin - 1, Max: yMax + 1}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderPNG renders snap into memory.
func RenderPNG(snap viewer.Snapshot, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, snap, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save renders snap into dir and returns the file path. The file name is
// derived from the title and now.
func Save(dir string, snap viewer.Snapshot, opts Options, now time.Time) (string, error) {
	data, err := RenderPNG(snap, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, FileName(snap.Title, now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	log.WithField("path", path).Info("Snapshot saved")
	return path, nil
}

// FileName builds a file system safe name such as viewer0D_20240102_150405.png.
func FileName(title string, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, title)
	if name == "" {
		name = "snapshot"
	}
	return name + "_" + now.Format("20060102_150405") + ".png"
}

func toDrawing(c color.Color) drawing.Color {
	r, g, b, a := c.RGBA()
	return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
