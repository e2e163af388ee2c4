package pipeline

import "time"

// RunStats summarizes a completed run for the end-of-run report.
type RunStats struct {
	Clips            int
	FramesTotal      int
	FramesKept       int
	FramesDropped    int
	KeyframesDropped int
	Seed             int64
	OutputPath       string
	OutputBytes      int64
	OutputDuration   float64
	Elapsed          time.Duration
}

// DropShare returns the dropped fraction of the combined stream, 0..1.
func (s RunStats) DropShare() float64 {
	if s.FramesTotal == 0 {
		return 0
	}
	return float64(s.FramesDropped) / float64(s.FramesTotal)
}
