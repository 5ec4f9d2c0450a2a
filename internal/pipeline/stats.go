package pipeline

import "sync"

// Snapshot is a consistent view of the run counters.
type Snapshot struct {
	Completed int
	Failed    int
	Total     int
}

// Done returns the number of files with a result.
func (s Snapshot) Done() int { return s.Completed + s.Failed }

// Counters tracks completed and failed files of a batch. Updates and reads
// are serialized so every Snapshot satisfies Completed+Failed <= Total.
type Counters struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewCounters returns counters for a batch of total files.
func NewCounters(total int) *Counters {
	return &Counters{snap: Snapshot{Total: total}}
}

// Record counts one result and returns the counters after the update.
func (c *Counters) Record(ok bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.Done() >= c.snap.Total {
		return c.snap
	}
	if ok {
		c.snap.Completed++
	} else {
		c.snap.Failed++
	}
	return c.snap
}

// Snapshot returns the current counters.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// RunStats tracks aggregate counters and byte totals across a run. In watch
// mode it accumulates over every batch.
type RunStats struct {
	Total            int
	Completed        int
	Failed           int
	FLAC             int
	MP3              int
	SmallSkipped     int
	SmallDeleted     int
	Ignored          int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs of successful conversions. Positive means outputs are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// add merges one batch into s.
func (s *RunStats) add(b RunStats) {
	s.Total += b.Total
	s.Completed += b.Completed
	s.Failed += b.Failed
	s.FLAC += b.FLAC
	s.MP3 += b.MP3
	s.SmallSkipped += b.SmallSkipped
	s.SmallDeleted += b.SmallDeleted
	s.Ignored += b.Ignored
	s.TotalInputBytes += b.TotalInputBytes
	s.TotalOutputBytes += b.TotalOutputBytes
}
