package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Progress tracks how far a batch has got and logs it periodically.
type Progress struct {
	mu             sync.RWMutex
	logger         zerolog.Logger
	total          int
	started        int
	inFlight       int
	peakInFlight   int
	outcomes       map[string]int
	baseline       int
	peakGoroutines int
	startTime      time.Time
	checkInterval  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
}

// NewProgress creates a monitor for a batch of total runs.
// An interval of zero disables periodic logging.
func NewProgress(total int, interval time.Duration, logger zerolog.Logger) *Progress {
	baseline := runtime.NumGoroutine()
	return &Progress{
		logger:         logger.With().Str("component", "BatchProgress").Logger(),
		total:          total,
		outcomes:       make(map[string]int),
		baseline:       baseline,
		peakGoroutines: baseline,
		checkInterval:  interval,
		stopChan:       make(chan struct{}),
	}
}

// Start begins periodic progress logging
func (p *Progress) Start() {
	p.mu.Lock()
	p.startTime = time.Now()
	p.mu.Unlock()

	if p.checkInterval > 0 {
		go p.monitor()
	}
	p.logger.Info().
		Int("total", p.total).
		Int("goroutine_baseline", p.baseline).
		Msg("Batch started")
}

// Stop stops periodic logging and logs a final summary. Safe to call more than once.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		m := p.GetMetrics()
		p.logger.Info().
			Int("total", m.Total).
			Int("finished", m.Finished).
			Interface("outcomes", m.Outcomes).
			Int("peak_in_flight", m.PeakInFlight).
			Dur("elapsed", m.Elapsed).
			Msg("Batch finished")
	})
}

func (p *Progress) monitor() {
	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.check()
		case <-p.stopChan:
			return
		}
	}
}

func (p *Progress) check() {
	current := runtime.NumGoroutine()

	p.mu.Lock()
	if current > p.peakGoroutines {
		p.peakGoroutines = current
	}
	p.mu.Unlock()

	m := p.GetMetrics()
	p.logger.Info().
		Int("finished", m.Finished).
		Int("total", m.Total).
		Int("in_flight", m.InFlight).
		Float64("percent", m.Percent()).
		Int("goroutines", current).
		Msg("Batch progress")
}

// RunStarted records that a run began.
func (p *Progress) RunStarted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	p.inFlight++
	if p.inFlight > p.peakInFlight {
		p.peakInFlight = p.inFlight
	}
}

// RunFinished records that a run ended with the given outcome.
func (p *Progress) RunFinished(outcome string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight > 0 {
		p.inFlight--
	}
	p.outcomes[outcome]++
}

// GetMetrics returns a snapshot of the batch counters
func (p *Progress) GetMetrics() ProgressMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()

	finished := 0
	for _, n := range p.outcomes {
		finished += n
	}
	var elapsed time.Duration
	if !p.startTime.IsZero() {
		elapsed = time.Since(p.startTime)
	}

	return ProgressMetrics{
		Total:          p.total,
		Started:        p.started,
		Finished:       finished,
		InFlight:       p.inFlight,
		PeakInFlight:   p.peakInFlight,
		PeakGoroutines: p.peakGoroutines,
		Outcomes:       copyMap(p.outcomes),
		Elapsed:        elapsed,
	}
}

// ProgressMetrics contains batch progress statistics
type ProgressMetrics struct {
	Total          int            `json:"total"`
	Started        int            `json:"started"`
	Finished       int            `json:"finished"`
	InFlight       int            `json:"in_flight"`
	PeakInFlight   int            `json:"peak_in_flight"`
	PeakGoroutines int            `json:"peak_goroutines"`
	Outcomes       map[string]int `json:"outcomes"`
	Elapsed        time.Duration  `json:"elapsed"`
}

// Percent returns the finished share of the batch, 0-100.
func (m ProgressMetrics) Percent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Finished) / float64(m.Total) * 100
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
