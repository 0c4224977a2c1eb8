package sample

// NewAveragingConverter creates a converter that averages every windowSize
// consecutive Events into one. A change of the channel count starts a new
// window, dropping the incomplete one.
func NewAveragingConverter(windowSize int, bufSize int) func(in <-chan Event) <-chan Event {
	if windowSize <= 0 {
		windowSize = 1 // No averaging if invalid
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan Event) <-chan Event {
		out := make(chan Event, bufSize)

		go func() {
			defer close(out)

			buffer := make([]Event, 0, windowSize)
			for ev := range in {
				if len(buffer) > 0 && len(buffer[0].Values) != len(ev.Values) {
					log.WithField("dropped", len(buffer)).Debug("Channel count changed, restarting average")
					buffer = buffer[:0]
				}

				buffer = append(buffer, ev)
				if len(buffer) < windowSize {
					continue
				}

				out <- averageEvents(buffer)
				buffer = buffer[:0]
			}
		}()

		return out
	}
}

// averageEvents averages a slice of Events with equal channel counts.
// Uses the most recent event's timestamp and labels.
func averageEvents(events []Event) Event {
	if len(events) == 0 {
		return Event{}
	}

	last := events[len(events)-1]
	sums := make([]float64, len(last.Values))
	for _, ev := range events {
		for i, v := range ev.Values {
			sums[i] += v
		}
	}

	n := float64(len(events))
	for i := range sums {
		sums[i] /= n
	}

	return Event{
		Timestamp: last.Timestamp,
		Values:    sums,
		Labels:    last.Labels,
	}
}
