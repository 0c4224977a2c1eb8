package viewer

import "time"

// SourceRaw tags values taken straight from the acquisition.
const SourceRaw = "raw"

// Data0D is the latest value of one channel.
type Data0D struct {
	Value  float64
	Source string
}

// DataToExport is emitted after every successful update.
type DataToExport struct {
	Name    string
	Data0D  map[string]Data0D
	AcqTime time.Time
}

// Snapshot is a copy of what the view currently shows.
type Snapshot struct {
	Title  string
	Labels []string
	X      []float64
	Y      [][]float64
}
