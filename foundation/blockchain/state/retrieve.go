package state

import (
	"time"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
)

// RetrieveChainHeight returns the height of the latest block, -1 if the
// chain has no blocks.
func (s *State) RetrieveChainHeight() int64 {
	return s.db.Height()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChallengeWindow returns how long an issued challenge stays valid.
func (s *State) RetrieveChallengeWindow() time.Duration {
	return s.window
}
