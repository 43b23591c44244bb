package commands_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardanlabs/starnotary/app/tooling/admin/commands"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/stretchr/testify/require"
)

// newChain builds a chain of two records and returns its blocks.
func newChain(t *testing.T) []database.Block {
	storage, err := memory.New()
	require.NoError(t, err)

	db, err := database.New(storage, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, rec := range []state.Record{
		{Address: "addr1", Message: "m1", Signature: "s1", Star: []byte(`{"star":"Polaris"}`)},
		{Address: "addr2", Message: "m2", Signature: "s2", Star: []byte(`{"star":"Vega"}`)},
	} {
		block, err := database.NewBlock(rec)
		require.NoError(t, err)

		_, err = db.Append(block)
		require.NoError(t, err)
	}

	return db.Blocks()
}

// store writes the blocks into a fresh storage.
func store(t *testing.T, blocks []database.Block) database.Serializer {
	storage, err := memory.New()
	require.NoError(t, err)

	for _, block := range blocks {
		require.NoError(t, storage.Write(database.NewBlockData(block)))
	}

	return storage
}

func TestValidate(t *testing.T) {
	blocks := newChain(t)

	var out bytes.Buffer
	require.NoError(t, commands.Validate(&out, store(t, blocks)))
	require.True(t, strings.HasPrefix(out.String(), "chain is valid: height[2]"))

	blocks[1].Body = blocks[2].Body

	out.Reset()
	err := commands.Validate(&out, store(t, blocks))
	require.ErrorIs(t, err, database.ErrChainIntegrity)
	require.Equal(t, "Block 1 is not valid.\n", out.String())

	empty, err := memory.New()
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, commands.Validate(&out, empty))
	require.Equal(t, "chain is empty\n", out.String())
}

func TestBlocksAndRecords(t *testing.T) {
	storage := store(t, newChain(t))

	var out bytes.Buffer
	require.NoError(t, commands.Blocks(&out, storage, ""))
	require.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)

	out.Reset()
	require.NoError(t, commands.Blocks(&out, storage, "1"))
	require.Contains(t, out.String(), `"height":1`)

	require.Error(t, commands.Blocks(&out, storage, "7"))

	out.Reset()
	require.NoError(t, commands.Records(&out, storage, "addr2"))
	require.JSONEq(t, `{"address":"addr2","message":"m2","signature":"s2","star":{"star":"Vega"}}`, out.String())

	require.Error(t, commands.Records(&out, storage, ""))
}
