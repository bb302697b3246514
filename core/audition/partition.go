package audition

import "time"

// Partition splits the [start, end) window into consecutive fixed-length
// blocks and returns their start times in ascending order. The caller
// guarantees that block is positive and evenly divides the window; the
// result then holds exactly (end-start)/block entries, the first at start,
// each one block after the previous, the last strictly before end.
func Partition(start, end time.Time, block time.Duration) []time.Time {
	if block <= 0 || !end.After(start) {
		return nil
	}
	starts := make([]time.Time, 0, end.Sub(start)/block)
	for t := start; t.Before(end); t = t.Add(block) {
		starts = append(starts, t)
	}
	return starts
}
