package monitoring

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestProgress_CountsRuns(t *testing.T) {
	p := NewProgress(4, 0, zerolog.Nop())
	p.Start()

	p.RunStarted()
	p.RunStarted()
	p.RunFinished("terminated")
	p.RunStarted()
	p.RunFinished("failed")
	p.RunFinished("terminated")

	m := p.GetMetrics()
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 3, m.Started)
	assert.Equal(t, 3, m.Finished)
	assert.Equal(t, 0, m.InFlight)
	assert.Equal(t, 2, m.PeakInFlight)
	assert.Equal(t, map[string]int{"terminated": 2, "failed": 1}, m.Outcomes)
	assert.InDelta(t, 75.0, m.Percent(), 1e-9)

	p.Stop()
	assert.NotPanics(t, p.Stop)
}

func TestProgress_ConcurrentUpdates(t *testing.T) {
	p := NewProgress(100, 0, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.RunStarted()
			p.RunFinished("capped")
		}()
	}
	wg.Wait()

	m := p.GetMetrics()
	assert.Equal(t, 100, m.Finished)
	assert.Equal(t, 100, m.Outcomes["capped"])
	assert.GreaterOrEqual(t, m.PeakInFlight, 1)
}

func TestProgress_PeriodicLogging(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&lockedWriter{mu: &mu, w: &buf}))

	p := NewProgress(1, 5*time.Millisecond, logger)
	p.Start()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bytes.Contains(buf.Bytes(), []byte("Batch progress"))
	}, time.Second, 5*time.Millisecond)
	p.Stop()
}

func TestProgressMetrics_PercentEmpty(t *testing.T) {
	assert.Zero(t, ProgressMetrics{}.Percent())
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
