package generation

import (
	"sync"
	"time"
)

const (
	progressStep       = 10
	progressInterval   = 500 * time.Millisecond
	progressCeiling    = 90
	progressResetDelay = time.Second
)

// Simulator produces user-visible progress for an in-flight generation.
// The percent climbs by a fixed step on a fixed interval and holds at a
// ceiling until the real response lands; 100 is reached only on confirmed
// success. It carries no correctness weight.
type Simulator struct {
	interval   time.Duration
	resetDelay time.Duration

	mu         sync.Mutex
	percent    int
	generation int
	stop       chan struct{}
}

// NewSimulator creates an idle simulator.
func NewSimulator() *Simulator {
	return &Simulator{
		interval:   progressInterval,
		resetDelay: progressResetDelay,
	}
}

// Percent returns the current progress in [0, 100].
func (s *Simulator) Percent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percent
}

// Start resets the percent and begins ticking. Any previous run is stopped
// first, so the ticker never outlives the request it decorates.
func (s *Simulator) Start() {
	s.mu.Lock()
	s.stopLocked()
	s.percent = 0
	s.generation++
	stop := make(chan struct{})
	s.stop = stop
	interval := s.interval
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.advance()
			}
		}
	}()
}

// Finish stops the ticker. On success the percent is forced to 100; either
// way it falls back to 0 after a short display delay, unless a new run has
// started in the meantime.
func (s *Simulator) Finish(success bool) {
	s.mu.Lock()
	s.stopLocked()
	if success {
		s.percent = 100
	}
	gen := s.generation
	delay := s.resetDelay
	s.mu.Unlock()

	time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen {
			s.percent = 0
		}
	})
}

// advance bumps the percent by one step, holding at the ceiling.
func (s *Simulator) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.percent < progressCeiling {
		s.percent += progressStep
		if s.percent > progressCeiling {
			s.percent = progressCeiling
		}
	}
}

func (s *Simulator) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
