// Package postgres implements the ability to read and write blocks to a
// PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table used to hold the blocks.
const Schema = `
CREATE TABLE IF NOT EXISTS blocks (
	height              BIGINT PRIMARY KEY,
	hash                TEXT   NOT NULL UNIQUE,
	body                TEXT   NOT NULL,
	time                BIGINT NOT NULL,
	previous_block_hash TEXT
)`

// Postgres represents the serialization implementation for reading and
// storing blocks in PostgreSQL. This implements the database.Serializer
// interface.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// New connects to the database at the url and makes sure the blocks table
// exists. Every operation is bounded by the specified timeout.
func New(ctx context.Context, url string, timeout time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create blocks table: %w", err)
	}

	return &Postgres{pool: pool, timeout: timeout}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Write inserts the block. The primary key on height rejects a second
// write of the same height.
func (p *Postgres) Write(blockData database.BlockData) error {
	if blockData.Hash == nil {
		return errors.New("block is not sealed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	const q = `
	INSERT INTO blocks (height, hash, body, time, previous_block_hash)
	VALUES ($1, $2, $3, $4, $5)`

	if _, err := p.pool.Exec(ctx, q,
		int64(blockData.Height), *blockData.Hash, blockData.Body,
		blockData.Time, blockData.PreviousBlockHash,
	); err != nil {
		return fmt.Errorf("insert block %d: %w", blockData.Height, err)
	}

	return nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block. The rows are read up front so no connection is held
// while the caller iterates.
func (p *Postgres) ForEach() database.Iterator {
	blocks, err := p.readAll()
	return &postgresIterator{blocks: blocks, err: err}
}

// readAll reads every block ordered by height.
func (p *Postgres) readAll() ([]database.BlockData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	const q = `
	SELECT height, hash, body, time, previous_block_hash
	FROM blocks ORDER BY height ASC`

	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}

	blocks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (database.BlockData, error) {
		var height int64
		var hash string
		var blockData database.BlockData

		if err := row.Scan(&height, &hash, &blockData.Body, &blockData.Time, &blockData.PreviousBlockHash); err != nil {
			return database.BlockData{}, err
		}

		blockData.Height = uint64(height)
		blockData.Hash = &hash

		return blockData, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan blocks: %w", err)
	}

	return blocks, nil
}

// =============================================================================

// postgresIterator walks the blocks read from the table.
type postgresIterator struct {
	blocks  []database.BlockData
	err     error
	current int
	eoc     bool
}

// Next retrieves the next block.
func (pi *postgresIterator) Next() (database.BlockData, error) {
	if pi.err != nil {
		err := pi.err
		pi.err = nil
		return database.BlockData{}, err
	}

	if pi.eoc || pi.current >= len(pi.blocks) {
		pi.eoc = true
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData := pi.blocks[pi.current]
	pi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (pi *postgresIterator) Done() bool {
	return pi.eoc
}
