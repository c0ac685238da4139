package pipeline

import "time"

// Progress projects the time left in a run from the cumulative average time
// per entity.
type Progress struct {
	total int
	done  int
	start time.Time
}

// NewProgress starts tracking total entities from start.
func NewProgress(total int, start time.Time) *Progress {
	return &Progress{total: total, start: start}
}

// Done records one finished entity and returns the new estimate.
func (p *Progress) Done(now time.Time) time.Duration {
	p.done++
	return EstimateRemaining(now.Sub(p.start), p.done, p.total)
}

// EstimateRemaining returns elapsed/done * (total-done).
func EstimateRemaining(elapsed time.Duration, done, total int) time.Duration {
	if done <= 0 || total <= done {
		return 0
	}
	return time.Duration(float64(elapsed) / float64(done) * float64(total-done))
}
