// Package leveldb implements the ability to read and write blocks to a
// LevelDB database keyed by block height.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const blockKeyPrefix = "block:"

// LevelDB represents the serialization implementation for reading and
// storing blocks in LevelDB. This implements the database.Serializer
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens (or creates) a LevelDB database at the provided path.
func New(path string) (*LevelDB, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("leveldb path required")
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve leveldb path: %w", err)
	}

	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb block store: %w", err)
	}

	return &LevelDB{db: db}, nil
}

// Close releases the underlying LevelDB resources.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write stores the block under its height. A height can only be written once.
func (l *LevelDB) Write(blockData database.BlockData) error {
	key := blockKey(blockData.Height)

	exists, err := l.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("check block %d: %w", blockData.Height, err)
	}
	if exists {
		return fmt.Errorf("block %d already written", blockData.Height)
	}

	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	if err := l.db.Put(key, data, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("write block %d: %w", blockData.Height, err)
	}

	return nil
}

// GetBlock returns the block stored at the specified height.
func (l *LevelDB) GetBlock(height uint64) (database.BlockData, error) {
	data, err := l.db.Get(blockKey(height), nil)
	if err != nil {
		return database.BlockData{}, err
	}

	var blockData database.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return database.BlockData{}, fmt.Errorf("decoding block %d: %w", height, err)
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (l *LevelDB) ForEach() database.Iterator {
	return &levelDBIterator{store: l}
}

// blockKey forms the key for a block. The height is big endian encoded so
// keys sort in height order.
func blockKey(height uint64) []byte {
	key := make([]byte, len(blockKeyPrefix)+8)
	copy(key, blockKeyPrefix)
	binary.BigEndian.PutUint64(key[len(blockKeyPrefix):], height)
	return key
}

// =============================================================================

// levelDBIterator walks the blocks by height until a height is missing.
type levelDBIterator struct {
	store   *LevelDB
	current uint64
	eoc     bool
}

// Next retrieves the next block from LevelDB.
func (li *levelDBIterator) Next() (database.BlockData, error) {
	if li.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData, err := li.store.GetBlock(li.current)
	if errors.Is(err, leveldb.ErrNotFound) {
		li.eoc = true
	}
	li.current++

	return blockData, err
}

// Done returns the end of chain value.
func (li *levelDBIterator) Done() bool {
	return li.eoc
}
