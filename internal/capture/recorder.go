// Package capture records training frames from running simulations: for every
// step, the grid as it stood before the step and a mask of the cells that caught
// fire during it.
package capture

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
)

// DefaultCapacity is used when a recorder is created with a non-positive capacity.
const DefaultCapacity = 10000

// ErrRecorderClosed is returned when frames are added to a closed recorder
var ErrRecorderClosed = errors.New("frame recorder is closed")

// Frame is one (input, target) pair for the spread predictor.
type Frame struct {
	RunID string
	Step  int
	Size  int
	// Current holds row-major cell codes before the step.
	Current []uint8
	// NewSources is 1 where a cell ignited during the step.
	NewSources []uint8
}

// Recorder is a thread-safe ring buffer of frames. When full, the oldest frame
// is dropped. It subscribes to step events and may be shared between runs.
type Recorder struct {
	id       string
	mu       sync.RWMutex
	frames   []Frame
	capacity int
	size     int
	head     int // Write position
	tail     int // Read position
	closed   bool

	totalAdded   int64
	totalDropped int64

	logger zerolog.Logger
}

// NewRecorder creates a recorder holding at most capacity frames.
func NewRecorder(id string, capacity int, logger zerolog.Logger) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		id:       id,
		frames:   make([]Frame, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "frame_recorder").Logger(),
	}
}

func (r *Recorder) ID() string { return r.id }

func (r *Recorder) InterestedIn(eventType string) bool {
	return eventType == events.TypeStepCompleted
}

// HandleEvent turns a step event into a frame.
func (r *Recorder) HandleEvent(e events.Event) {
	se, ok := e.(*events.StepCompletedEvent)
	if !ok {
		return
	}
	frame := Frame{
		RunID:      se.RunID(),
		Step:       se.Step,
		Size:       se.Previous.Size,
		Current:    se.Previous.Codes(),
		NewSources: se.NewIgnitionMask(),
	}
	if err := r.Add(frame); err != nil {
		r.logger.Debug().Err(err).Str("run_id", frame.RunID).Msg("Frame discarded")
	}
}

// Add appends a frame, dropping the oldest one if the buffer is full.
func (r *Recorder) Add(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	if r.size >= r.capacity {
		r.tail = (r.tail + 1) % r.capacity
		r.totalDropped++
		if r.totalDropped == 1 {
			r.logger.Warn().Int("capacity", r.capacity).Msg("Recorder full, dropping oldest frames")
		}
	} else {
		r.size++
	}

	r.frames[r.head] = f
	r.head = (r.head + 1) % r.capacity
	r.totalAdded++
	return nil
}

// Drain removes and returns every buffered frame, oldest first.
func (r *Recorder) Drain() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Frame, r.size)
	for i := range out {
		out[i] = r.frames[r.tail]
		r.frames[r.tail] = Frame{}
		r.tail = (r.tail + 1) % r.capacity
	}
	r.size = 0
	return out
}

// Latest returns up to n of the most recent frames without removing them,
// oldest first.
func (r *Recorder) Latest(n int) []Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.size {
		n = r.size
	}
	out := make([]Frame, n)
	start := (r.head - n + r.capacity) % r.capacity
	for i := 0; i < n; i++ {
		out[i] = r.frames[(start+i)%r.capacity]
	}
	return out
}

func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Recorder) Capacity() int { return r.capacity }

// Close stops the recorder from accepting frames. Buffered frames can still be drained.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Stats returns recorder counters
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Size:         r.size,
		Capacity:     r.capacity,
		TotalAdded:   r.totalAdded,
		TotalDropped: r.totalDropped,
		Closed:       r.closed,
	}
}

// Stats contains recorder statistics
type Stats struct {
	Size         int   `json:"size"`
	Capacity     int   `json:"capacity"`
	TotalAdded   int64 `json:"total_added"`
	TotalDropped int64 `json:"total_dropped"`
	Closed       bool  `json:"closed"`
}
