package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/starnotary/foundation/logger"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := logger.New("TEST")
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewWithRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	log := logger.NewWithRotation("TEST", path, 1)
	log.Infow("startup", "status", "rotation")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.Contains(data, []byte(`"service":"TEST"`)))
	require.True(t, bytes.Contains(data, []byte(`"status":"rotation"`)))
}
