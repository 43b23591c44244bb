package disk_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database/storage/disk"
	"github.com/stretchr/testify/require"
)

func TestDiskPersistsChain(t *testing.T) {
	dir := t.TempDir()

	store, err := disk.New(dir)
	require.NoError(t, err)

	db, err := database.New(store, nil)
	require.NoError(t, err)

	block, err := database.NewBlock(map[string]string{"star": "Polaris"})
	require.NoError(t, err)

	sealed, err := db.Append(block)
	require.NoError(t, err)

	// One file per block, genesis included.
	for _, name := range []string{"0.json", "1.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}

	reopened, err := database.New(store, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), reopened.Height())

	got, found := reopened.BlockByHash(sealed.Hash)
	require.True(t, found)
	require.Equal(t, sealed, got)

	require.Error(t, store.Write(database.NewBlockData(sealed)))
}

func TestDiskFailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()

	store, err := disk.New(dir)
	require.NoError(t, err)

	db, err := database.New(store, nil)
	require.NoError(t, err)

	restore := disk.SetWriteData(func(f *os.File, data []byte) error {
		f.Write(data[:len(data)/2])
		return errors.New("disk full")
	})

	block, err := database.NewBlock(map[string]string{"star": "Polaris"})
	require.NoError(t, err)

	_, err = db.Append(block)
	require.Error(t, err)
	require.Equal(t, int64(0), db.Height())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "0.json", entries[0].Name())

	restore()

	sealed, err := db.Append(block)
	require.NoError(t, err)
	require.Equal(t, uint64(1), sealed.Height)

	reopened, err := database.New(store, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), reopened.Height())
}
