package scraper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	t.Run("begin resets counters", func(t *testing.T) {
		p := NewProgress()
		p.Begin("run-1", 10)
		p.MarkProcessed()
		p.MarkFailed()

		p.Begin("run-2", 4)
		snap := p.Snapshot()
		require.Equal(t, "run-2", snap.RunID)
		require.Equal(t, 4, snap.Total)
		require.Zero(t, snap.Processed)
		require.Zero(t, snap.Failed)
		require.False(t, snap.StartedAt.IsZero())
	})

	t.Run("concurrent marks are counted exactly", func(t *testing.T) {
		p := NewProgress()
		p.Begin("run-3", 300)

		var wg sync.WaitGroup
		for range 100 {
			wg.Add(3)
			go func() { defer wg.Done(); p.MarkProcessed() }()
			go func() { defer wg.Done(); p.MarkSkipped() }()
			go func() { defer wg.Done(); p.MarkFailed() }()
		}
		wg.Wait()

		snap := p.Snapshot()
		require.Equal(t, 100, snap.Processed)
		require.Equal(t, 100, snap.SkippedRobots)
		require.Equal(t, 100, snap.Failed)
	})
}
