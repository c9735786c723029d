package stopwatch

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopwatch accumulates the durations of sequential timed intervals and the
// idle gaps between them. It assumes intervals never overlap: a Start must be
// paired with the next Stop.
type Stopwatch struct {
	clock clockwork.Clock
	mu    sync.Mutex

	elapsed  time.Duration
	starting time.Time
	delay    time.Time
	steps    []time.Duration
	delays   []time.Duration
}

type Option func(*Stopwatch)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Stopwatch) {
		s.clock = clock
	}
}

func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start marks the beginning of an interval. When a previous interval was
// stopped, the gap since that stop is recorded as a delay.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.starting = now
	if !s.delay.IsZero() {
		s.delays = append(s.delays, now.Sub(s.delay))
	}
}

// Stop closes the current interval. Calling it without a prior Start yields a
// meaningless duration measured from the zero time.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.elapsed = now.Sub(s.starting)
	s.steps = append(s.steps, s.elapsed)
	s.delay = now
}

// Elapsed returns the duration of the most recently completed interval.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *Stopwatch) Steps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.steps...)
}

func (s *Stopwatch) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func (s *Stopwatch) OverallSteps() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum(s.steps)
}

func (s *Stopwatch) OverallDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum(s.delays)
}

// OverallAverage adds the mean delay to the mean step. The two means are
// computed independently, so this is not an average duration per job.
func (s *Stopwatch) OverallAverage() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	delays := time.Duration(max(1, len(s.delays)))
	steps := time.Duration(max(1, len(s.steps)))
	return sum(s.delays)/delays + sum(s.steps)/steps
}

// Reset clears every accumulator back to its zero state.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed = 0
	s.starting = time.Time{}
	s.delay = time.Time{}
	s.steps = nil
	s.delays = nil
}

func sum(ds []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total
}
