package challenge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const consumedKeyPrefix = "challenge:"

// LevelDBTracker is a Tracker that keeps consumed challenges in LevelDB so
// they stay consumed across restarts of the node.
type LevelDBTracker struct {
	mu sync.Mutex
	db *leveldb.DB
}

// NewLevelDBTracker opens (or creates) a LevelDB database at the provided path.
func NewLevelDBTracker(path string) (*LevelDBTracker, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("leveldb challenge tracker path required")
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve leveldb challenge path: %w", err)
	}

	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb challenge store: %w", err)
	}

	return &LevelDBTracker{db: db}, nil
}

// Close releases the underlying LevelDB resources.
func (lt *LevelDBTracker) Close() error {
	return lt.db.Close()
}

// Consume marks the message as used. ErrReused is returned if the message
// was already consumed and has not expired.
func (lt *LevelDBTracker) Consume(message string, now time.Time, expires time.Time) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if err := lt.prune(now); err != nil {
		return err
	}

	key := []byte(consumedKeyPrefix + message)

	exists, err := lt.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("load challenge: %w", err)
	}
	if exists {
		return ErrReused
	}

	if err := lt.db.Put(key, encodeUnix(expires.Unix()), nil); err != nil {
		return fmt.Errorf("record challenge: %w", err)
	}

	return nil
}

// Release forgets the message so it can be consumed again.
func (lt *LevelDBTracker) Release(message string) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if err := lt.db.Delete([]byte(consumedKeyPrefix+message), nil); err != nil {
		return fmt.Errorf("release challenge: %w", err)
	}

	return nil
}

// prune deletes the entries that expired before now.
func (lt *LevelDBTracker) prune(now time.Time) error {
	iter := lt.db.NewIterator(util.BytesPrefix([]byte(consumedKeyPrefix)), nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		if len(iter.Value()) != 8 {
			continue
		}

		if int64(binary.BigEndian.Uint64(iter.Value())) < now.Unix() {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate consumed challenges: %w", err)
	}

	if batch.Len() > 0 {
		if err := lt.db.Write(batch, nil); err != nil {
			return fmt.Errorf("prune challenges: %w", err)
		}
	}

	return nil
}

func encodeUnix(secs int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(secs))
	return buf
}
