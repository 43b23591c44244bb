// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// readBlocks reads every persisted block in height order.
func readBlocks(serializer database.Serializer) ([]database.Block, error) {
	var blocks []database.Block

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, database.ToBlock(blockData))
	}

	return blocks, nil
}

// Validate loads the persisted chain and reports every block that fails
// validation. It returns an error when the chain is not intact.
func Validate(w io.Writer, serializer database.Serializer) error {
	blocks, err := readBlocks(serializer)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		fmt.Fprintln(w, "chain is empty")
		return nil
	}

	db, err := database.New(readOnly{blocks: blocks}, nil)
	if err != nil {
		var cie *database.ChainIntegrityError
		if errors.As(err, &cie) {
			for _, msg := range cie.Errors {
				fmt.Fprintln(w, msg)
			}
		}
		return err
	}
	defer db.Close()

	fmt.Fprintf(w, "chain is valid: height[%d] latest[%s]\n", db.Height(), db.LatestBlock().Hash)

	return nil
}

// Blocks writes the persisted blocks as JSON. When height is provided only
// that block is written.
func Blocks(w io.Writer, serializer database.Serializer, height string) error {
	blocks, err := readBlocks(serializer)
	if err != nil {
		return err
	}

	if height != "" {
		h, err := strconv.ParseUint(height, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing height: %w", err)
		}
		if h >= uint64(len(blocks)) {
			return fmt.Errorf("block %d not found", h)
		}
		blocks = blocks[h : h+1]
	}

	enc := json.NewEncoder(w)
	for _, block := range blocks {
		if err := enc.Encode(database.NewBlockData(block)); err != nil {
			return err
		}
	}

	return nil
}

// Records writes the records submitted by the address in chain order.
func Records(w io.Writer, serializer database.Serializer, address string) error {
	if address == "" {
		return errors.New("address is required")
	}

	blocks, err := readBlocks(serializer)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for _, block := range blocks {
		var record state.Record
		if err := block.Data(&record); err != nil {
			continue
		}

		if record.Address == address {
			if err := enc.Encode(record); err != nil {
				return err
			}
		}
	}

	return nil
}

// =============================================================================

// readOnly replays blocks already read from storage so the chain can be
// validated without writing to the storage being inspected.
type readOnly struct {
	blocks []database.Block
}

func (ro readOnly) Write(database.BlockData) error {
	return errors.New("storage is read only")
}

func (ro readOnly) ForEach() database.Iterator {
	return &sliceIterator{blocks: ro.blocks}
}

func (ro readOnly) Close() error {
	return nil
}

type sliceIterator struct {
	blocks  []database.Block
	current int
	eoc     bool
}

func (si *sliceIterator) Next() (database.BlockData, error) {
	if si.current >= len(si.blocks) {
		si.eoc = true
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData := database.NewBlockData(si.blocks[si.current])
	si.current++

	return blockData, nil
}

func (si *sliceIterator) Done() bool {
	return si.eoc
}
