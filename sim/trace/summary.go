package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents    int
	Arrivals       int
	Departures     int
	QueuedArrivals int // arrivals that found every server busy
	MaxQueueLen    int
	MinAvailable   int
	LastClock      float64
	DroppedRecords int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	summary.DroppedRecords = st.Dropped
	for i, e := range st.Events {
		switch e.Kind {
		case "arrival":
			summary.Arrivals++
			if e.Queued {
				summary.QueuedArrivals++
			}
		case "departure":
			summary.Departures++
		}
		if e.QueueLen > summary.MaxQueueLen {
			summary.MaxQueueLen = e.QueueLen
		}
		if i == 0 || e.Available < summary.MinAvailable {
			summary.MinAvailable = e.Available
		}
		summary.LastClock = e.Clock
	}

	return summary
}
