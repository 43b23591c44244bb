package state

import (
	"runtime"
	"sync"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
)

// QueryBlockByHash returns the block with the specified hash. The boolean
// is false when no block has that hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, bool) {
	return s.db.BlockByHash(hash)
}

// QueryBlockByHeight returns the block at the specified height. The boolean
// is false when the chain is not that high.
func (s *State) QueryBlockByHeight(height uint64) (database.Block, bool) {
	return s.db.BlockByHeight(height)
}

// QueryRecordsByIdentity returns the records submitted by the identity in
// chain order. Blocks that can't be decoded, like the genesis block, are
// skipped. Every block is decoded before the result is built.
func (s *State) QueryRecordsByIdentity(identity string) []Record {
	blocks := s.db.Blocks()

	found := make([]*Record, len(blocks))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	var wg sync.WaitGroup
	wg.Add(len(blocks))

	for i, block := range blocks {
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()

			var record Record
			if err := block.Data(&record); err != nil {
				return
			}

			if record.Address == identity {
				found[i] = &record
			}
		}()
	}

	wg.Wait()

	records := make([]Record, 0, len(found))
	for _, record := range found {
		if record != nil {
			records = append(records, *record)
		}
	}

	return records
}

// QueryChainValidation validates the chain and returns the message for every
// block that failed. An empty result means the chain is valid.
func (s *State) QueryChainValidation() []string {
	errs := s.db.ValidateChain()
	if errs == nil {
		return []string{}
	}

	return errs
}
