package challenge

import (
	"sync"
	"time"
)

// Tracker records consumed challenges so a signed challenge can only be
// used to write one record.
type Tracker interface {
	Consume(message string, now time.Time, expires time.Time) error
	Release(message string) error
	Close() error
}

// =============================================================================

// MemoryTracker is an in-memory, thread-safe Tracker.
type MemoryTracker struct {
	mu       sync.Mutex
	consumed map[string]time.Time
}

// NewMemoryTracker constructs a tracker that lives for the process.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		consumed: make(map[string]time.Time),
	}
}

// Consume marks the message as used. ErrReused is returned if the message
// was already consumed and has not expired.
func (mt *MemoryTracker) Consume(message string, now time.Time, expires time.Time) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	// Expired challenges are rejected before they get here so their
	// entries can be dropped.
	for msg, exp := range mt.consumed {
		if now.After(exp) {
			delete(mt.consumed, msg)
		}
	}

	if _, exists := mt.consumed[message]; exists {
		return ErrReused
	}

	mt.consumed[message] = expires
	return nil
}

// Release forgets the message so it can be consumed again.
func (mt *MemoryTracker) Release(message string) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	delete(mt.consumed, message)
	return nil
}

// Close has nothing to do since everything is in memory.
func (mt *MemoryTracker) Close() error {
	return nil
}
