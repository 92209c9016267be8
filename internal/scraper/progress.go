package scraper

import (
	"sync"
	"time"
)

// Progress tracks run counters for the status endpoint. All methods
// are safe for concurrent use; the engine writes while the status
// server reads.
type Progress struct {
	mu            sync.Mutex
	runID         string
	startedAt     time.Time
	total         int
	processed     int
	skippedRobots int
	failed        int
}

// ProgressSnapshot is a point-in-time copy of the run counters.
type ProgressSnapshot struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	Total         int       `json:"total"`
	Processed     int       `json:"processed"`
	SkippedRobots int       `json:"skipped_robots"`
	Failed        int       `json:"failed"`
}

// NewProgress returns an empty Progress tracker.
func NewProgress() *Progress {
	return &Progress{}
}

// Begin resets the tracker for a new run.
func (p *Progress) Begin(runID string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runID = runID
	p.startedAt = time.Now().UTC()
	p.total = total
	p.processed = 0
	p.skippedRobots = 0
	p.failed = 0
}

// MarkProcessed records a successfully written record.
func (p *Progress) MarkProcessed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
}

// MarkSkipped records a robots-denied item.
func (p *Progress) MarkSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skippedRobots++
}

// MarkFailed records an item that failed terminally.
func (p *Progress) MarkFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
}

// Snapshot returns a copy of the current counters.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProgressSnapshot{
		RunID:         p.runID,
		StartedAt:     p.startedAt,
		Total:         p.total,
		Processed:     p.processed,
		SkippedRobots: p.skippedRobots,
		Failed:        p.failed,
	}
}
