package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
)

// ErrInvalidSignature is returned when the signature over a challenge does
// not belong to the identity submitting the record.
var ErrInvalidSignature = errors.New("signature is not valid for the identity")

// Record is the payload written into every block after the genesis block.
type Record struct {
	Address   string          `json:"address"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Star      json.RawMessage `json:"star"`
}

// =============================================================================

// RequestChallenge returns the message the identity must sign to submit a
// record. Nothing is retained by the node.
func (s *State) RequestChallenge(identity string) string {
	msg := challenge.New(identity, s.now(), s.tag).Message()
	s.evHandler("state: RequestChallenge: address[%s]", identity)

	return msg
}

// SubmitRecord validates the signed challenge and, if it passes, seals the
// star into a new block. The checks run in a fixed order so the caller learns
// the first reason the record was refused.
func (s *State) SubmitRecord(ctx context.Context, identity string, message string, sig string, star any) (database.Block, error) {
	s.evHandler("state: SubmitRecord: started: address[%s]", identity)

	c, err := challenge.Parse(message)
	if err != nil {
		return database.Block{}, err
	}

	now := s.now()

	s.evHandler("state: SubmitRecord: check: challenge is inside the window")

	if err := c.CheckFresh(now, s.window); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: SubmitRecord: check: challenge belongs to the address")

	if err := c.CheckBinding(identity, s.tag); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: SubmitRecord: check: signature belongs to the address")

	if !s.verifier.Verify(message, identity, sig) {
		return database.Block{}, ErrInvalidSignature
	}

	if s.tracker != nil {
		s.evHandler("state: SubmitRecord: check: challenge has not been used")

		if err := s.tracker.Consume(message, now, c.ExpiresAt(s.window)); err != nil {
			return database.Block{}, err
		}
	}

	block, err := s.appendRecord(ctx, identity, message, sig, star)
	if err != nil {
		if s.tracker != nil {
			if relErr := s.tracker.Release(message); relErr != nil {
				s.evHandler("state: SubmitRecord: WARNING: release challenge: %s", relErr)
			}
		}
		return database.Block{}, err
	}

	s.blockEvent(block)

	return block, nil
}

// appendRecord constructs the block for the record and appends it to the chain.
func (s *State) appendRecord(ctx context.Context, identity string, message string, sig string, star any) (database.Block, error) {
	starJSON, err := json.Marshal(star)
	if err != nil {
		return database.Block{}, fmt.Errorf("encoding star: %w", err)
	}

	block, err := database.NewBlock(Record{
		Address:   identity,
		Message:   message,
		Signature: sig,
		Star:      starJSON,
	})
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: SubmitRecord: append block")

	return s.db.Append(block)
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
