// Package state is the core API for the ledger and implements all the
// business rules for writing and reading records.
package state

import (
	"errors"
	"time"

	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
)

// EventHandler defines a function that is called when events
// occur in the processing of records.
type EventHandler func(v string, args ...any)

// Verifier interface represents the behavior required to check that a
// signature over a message was produced by the holder of an identity.
type Verifier interface {
	Verify(message string, identity string, signature string) bool
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Storage   database.Serializer // Optional persistence for the chain.
	Verifier  Verifier
	Tracker   challenge.Tracker // Optional, enables single use challenges.
	Tag       string
	Window    time.Duration
	Now       func() time.Time
	EvHandler EventHandler
}

// State manages the ledger.
type State struct {
	evHandler EventHandler
	verifier  Verifier
	tracker   challenge.Tracker
	tag       string
	window    time.Duration
	now       func() time.Time

	db *database.Database
}

// New constructs a new ledger, loading any blocks held by the storage and
// seeding the genesis block if the chain is empty.
func New(cfg Config) (*State, error) {
	if cfg.Verifier == nil {
		return nil, errors.New("signature verifier is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	tag := cfg.Tag
	if tag == "" {
		tag = challenge.DefaultTag
	}

	window := cfg.Window
	if window <= 0 {
		window = challenge.DefaultWindow
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// Access the chain, this will read what is in storage and write the
	// genesis block for a new chain.
	db, err := database.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		evHandler: ev,
		verifier:  cfg.Verifier,
		tracker:   cfg.Tracker,
		tag:       tag,
		window:    window,
		now:       now,
		db:        db,
	}

	ev("state: New: chain height[%d]", db.Height())

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	var trackerErr error
	if s.tracker != nil {
		trackerErr = s.tracker.Close()
	}

	return errors.Join(trackerErr, s.db.Close())
}
