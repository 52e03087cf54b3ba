package scheduler

import "time"

// Info reports timing for a completed render pass, and accumulates across
// passes via Merge so a long-running node can report lifetime totals
// alongside the most recent pass.
type Info struct {
	TotalSamples         int
	TotalTime            time.Duration
	LastSamples          int
	LastTime             time.Duration
	AvgTimePerSample     time.Duration
	LastAvgTimePerSample time.Duration
}

// Merge folds new into i: totals accumulate, "last" fields are replaced.
func (i *Info) Merge(new Info) {
	totalSamples := i.TotalSamples + new.TotalSamples
	totalTime := i.TotalTime + new.TotalTime

	i.TotalSamples = totalSamples
	i.TotalTime = totalTime
	if totalSamples > 0 {
		i.AvgTimePerSample = totalTime / time.Duration(totalSamples)
	}
	i.LastSamples = new.LastSamples
	i.LastTime = new.LastTime
	i.LastAvgTimePerSample = new.LastAvgTimePerSample
}
