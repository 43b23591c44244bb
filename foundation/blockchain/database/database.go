// Package database handles all the lower level support for maintaining the
// chain of sealed blocks in memory and, optionally, persisting it through a
// serializer.
package database

import (
	"fmt"
	"sync"
	"time"
)

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	ForEach() Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// Database manages the authoritative in memory chain. All writes are
// serialized and reads work against a consistent snapshot of the chain.
type Database struct {
	mu         sync.RWMutex
	blocks     []Block
	serializer Serializer
	evHandler  func(v string, args ...any)
}

// New constructs a new database, reads any blocks already held by the
// serializer and seeds the genesis block if the chain is empty. The
// serializer is optional.
func New(serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		serializer: serializer,
		evHandler:  ev,
	}

	// Read all the blocks from storage if a serializer is provided.
	if serializer != nil {
		iter := serializer.ForEach()
		for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
			if err != nil {
				return nil, err
			}

			block := ToBlock(blockData)
			if block.Height != uint64(len(db.blocks)) {
				return nil, fmt.Errorf("block is out of order, got %d, exp %d", block.Height, len(db.blocks))
			}

			db.blocks = append(db.blocks, block)
		}

		ev("database: New: loaded blocks[%d]", len(db.blocks))

		if errs := validateBlocks(db.blocks); len(errs) > 0 {
			return nil, &ChainIntegrityError{Errors: errs}
		}
	}

	if err := db.Initialize(); err != nil {
		return nil, err
	}

	return &db, nil
}

// Close closes the serializer if one is in use.
func (db *Database) Close() error {
	if db.serializer == nil {
		return nil
	}

	return db.serializer.Close()
}

// Initialize seeds the chain with the genesis block. It does nothing if the
// chain already has blocks.
func (db *Database) Initialize() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.blocks) > 0 {
		return nil
	}

	genesis, err := NewBlock(GenesisData)
	if err != nil {
		return err
	}

	if _, err := db.append(genesis); err != nil {
		return fmt.Errorf("sealing genesis block: %w", err)
	}

	return nil
}

// Append seals the block as the next block in the chain. The chain is
// validated with the block in place and the block is only committed if the
// validation reports no errors.
func (db *Database) Append(block Block) (Block, error) {
	if block.Hash != "" {
		return Block{}, ErrSealed
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return db.append(block)
}

// Height returns the height of the latest block or -1 if the chain is empty.
func (db *Database) Height() int64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return int64(len(db.blocks)) - 1
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	blocks := db.snapshot()
	if len(blocks) == 0 {
		return Block{}
	}

	return blocks[len(blocks)-1]
}

// Blocks returns a copy of the blocks in the chain in height order.
func (db *Database) Blocks() []Block {
	blocks := db.snapshot()

	cpy := make([]Block, len(blocks))
	copy(cpy, blocks)

	return cpy
}

// BlockByHash returns the first block with the specified hash.
func (db *Database) BlockByHash(hash string) (Block, bool) {
	for _, block := range db.snapshot() {
		if block.Hash == hash {
			return block, true
		}
	}

	return Block{}, false
}

// BlockByHeight returns the block at the specified height.
func (db *Database) BlockByHeight(height uint64) (Block, bool) {
	blocks := db.snapshot()
	if height >= uint64(len(blocks)) {
		return Block{}, false
	}

	return blocks[height], true
}

// ValidateChain validates every block in height order and returns an error
// message for each block that fails. An empty result means the chain is valid.
func (db *Database) ValidateChain() []string {
	return validateBlocks(db.snapshot())
}

// =============================================================================

// append performs the sealing and the commit or rollback. The caller must
// hold the write lock.
func (db *Database) append(block Block) (Block, error) {
	var parent *Block
	if len(db.blocks) > 0 {
		parent = &db.blocks[len(db.blocks)-1]
	}

	block.seal(parent, time.Now())

	// Stage the block. The previous slice header is kept so the chain can
	// be restored if the block can't be committed.
	restore := db.blocks
	db.blocks = append(db.blocks, block)

	if parent != nil {
		if errs := validateBlocks(db.blocks); len(errs) > 0 {
			db.blocks = restore
			db.evHandler("database: Append: blk[%d]: ROLLBACK: errors[%d]", block.Height, len(errs))
			return Block{}, &ChainIntegrityError{Errors: errs}
		}
	}

	if db.serializer != nil {
		if err := db.serializer.Write(NewBlockData(block)); err != nil {
			db.blocks = restore
			db.evHandler("database: Append: blk[%d]: ROLLBACK: write: %s", block.Height, err)
			return Block{}, fmt.Errorf("writing block %d: %w", block.Height, err)
		}
	}

	db.evHandler("database: Append: blk[%d]: hash[%s]: prevBlk[%s]", block.Height, block.Hash, block.PreviousBlockHash)

	return block, nil
}

// snapshot returns the current slice of blocks. Blocks past the length of
// a snapshot may be written by a later append, but the elements within its
// length are never modified.
func (db *Database) snapshot() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks
}

// validateBlocks runs the per block validation across the set of blocks.
func validateBlocks(blocks []Block) []string {
	var errs []string
	for _, block := range blocks {
		if !block.Validate() {
			errs = append(errs, (&TamperedBlockError{Height: block.Height}).Error())
		}
	}

	return errs
}
