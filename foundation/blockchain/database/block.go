package database

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
)

// GenesisData is the sentinel payload stored in the first block of every
// chain. It is never handed back as application data.
const GenesisData = "Genesis Block"

// =============================================================================

// Block represents a single sealed record in the chain. The hash, height,
// time and previous block hash are assigned by the Database when the block
// is appended and must never change afterwards.
type Block struct {
	Hash              string `json:"hash"`              // Digest of the block with the hash treated as null.
	Height            uint64 `json:"height"`            // Position in the chain, genesis is zero.
	Body              string `json:"body"`              // Hex encoding of the JSON payload.
	Time              int64  `json:"time"`              // Unix seconds the block was sealed.
	PreviousBlockHash string `json:"previousBlockHash"` // Hash of the block at height-1, empty for genesis and encoded as null.
}

// NewBlock constructs an unsealed block for the specified payload. The
// payload is encoded immediately and the encoding is final.
func NewBlock(payload any) (Block, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Block{}, fmt.Errorf("encoding payload: %w", err)
	}

	return Block{Body: hex.EncodeToString(data)}, nil
}

// Validate recomputes the digest of the block and compares it with the
// stored hash. Any change made to a sealed block causes this to fail.
func (b Block) Validate() bool {
	return b.Hash == b.digest()
}

// Data decodes the block payload into the specified value.
func (b Block) Data(v any) error {
	data, err := b.RawData()
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

// RawData returns the JSON encoding of the payload exactly as it was
// provided when the block was constructed.
func (b Block) RawData() (json.RawMessage, error) {
	if b.Height == 0 {
		return nil, ErrGenesisData
	}

	data, err := hex.DecodeString(b.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: body is not valid json", ErrDecode)
	}

	return data, nil
}

// MarshalJSON encodes the block in its canonical form so the genesis
// previous block hash is written as null.
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(NewBlockData(b))
}

// UnmarshalJSON decodes a block from its canonical form.
func (b *Block) UnmarshalJSON(data []byte) error {
	var blockData BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return err
	}

	*b = ToBlock(blockData)
	return nil
}

// seal fills in the chain metadata and the hash. A nil parent seals the
// block as the genesis block.
func (b *Block) seal(parent *Block, now time.Time) {
	b.Height = 0
	b.PreviousBlockHash = ""
	if parent != nil {
		b.Height = parent.Height + 1
		b.PreviousBlockHash = parent.Hash
	}

	b.Time = now.UTC().Unix()
	b.Hash = b.digest()
}

// digest hashes the canonical form of the block with the hash set to null.
func (b Block) digest() string {
	blockData := NewBlockData(b)
	blockData.Hash = nil

	return signature.Hash(blockData)
}

// =============================================================================

// BlockData is the canonical form of a block. This is the exact shape that is
// hashed and written to storage, so the field set and order must not change.
type BlockData struct {
	Hash              *string `json:"hash"`
	Height            uint64  `json:"height"`
	Body              string  `json:"body"`
	Time              int64   `json:"time"`
	PreviousBlockHash *string `json:"previousBlockHash"`
}

// NewBlockData constructs the value to serialize to storage.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Height: block.Height,
		Body:   block.Body,
		Time:   block.Time,
	}

	if block.Hash != "" {
		hash := block.Hash
		blockData.Hash = &hash
	}

	if block.PreviousBlockHash != "" {
		prev := block.PreviousBlockHash
		blockData.PreviousBlockHash = &prev
	}

	return blockData
}

// ToBlock converts a BlockData into a Block.
func ToBlock(blockData BlockData) Block {
	block := Block{
		Height: blockData.Height,
		Body:   blockData.Body,
		Time:   blockData.Time,
	}

	if blockData.Hash != nil {
		block.Hash = *blockData.Hash
	}

	if blockData.PreviousBlockHash != nil {
		block.PreviousBlockHash = *blockData.PreviousBlockHash
	}

	return block
}
