package dashboard

// slots.go caps how many bulk imports run at once across all views.
//
// Imports are long (one paced API call per entry), so a burst of pasted
// batches would otherwise multiply outbound load. Waiting callers give up
// after maxWait with ErrTooManyImports. WaitForDrain lets shutdown finish
// running imports first.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyImports is returned when every slot stays busy for maxWait.
var ErrTooManyImports = errors.New("dashboard: too many imports in progress")

// Defaults for NewImportSlots.
const (
	DefaultMaxImports    = 2
	DefaultImportMaxWait = 10 * time.Second
)

// ImportSlots is a counting semaphore for imports.
type ImportSlots struct {
	sem     chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewImportSlots allows max concurrent imports. Non-positive arguments
// take the defaults.
func NewImportSlots(max int, maxWait time.Duration) *ImportSlots {
	if max <= 0 {
		max = DefaultMaxImports
	}
	if maxWait <= 0 {
		maxWait = DefaultImportMaxWait
	}
	return &ImportSlots{sem: make(chan struct{}, max), maxWait: maxWait}
}

// Acquire takes a slot, waiting at most maxWait. Callers must Release.
func (s *ImportSlots) Acquire(ctx context.Context) error {
	wait, cancel := context.WithTimeout(ctx, s.maxWait)
	defer cancel()

	select {
	case s.sem <- struct{}{}:
		s.mu.Lock()
		s.active++
		s.mu.Unlock()
		return nil
	case <-wait.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrTooManyImports
	}
}

// Release frees a slot taken by Acquire.
func (s *ImportSlots) Release() {
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	<-s.sem
}

// Active returns the number of running imports.
func (s *ImportSlots) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// WaitForDrain blocks until no import is running or ctx ends.
func (s *ImportSlots) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for s.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
