package cmd

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/starnotary/app/services/node/handlers"
	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/ardanlabs/starnotary/foundation/events"
	"github.com/ardanlabs/starnotary/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNode(t *testing.T) string {
	st, err := state.New(state.Config{
		Verifier: signature.MessageVerifier{},
		Tracker:  challenge.NewMemoryTracker(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Shutdown() })

	ns, err := nameservice.New("")
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func TestSubmitStar(t *testing.T) {
	nodeURL := newNode(t)

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	block, err := submitStar(nodeURL, privateKey, json.RawMessage(`{"star":"Polaris"}`))
	require.NoError(t, err)
	require.Equal(t, uint64(1), block.Height)
	require.True(t, block.Validate())

	var record state.Record
	require.NoError(t, block.Data(&record))
	require.Equal(t, signature.PublicKeyToAddress(privateKey.PublicKey), record.Address)
	require.JSONEq(t, `{"star":"Polaris"}`, string(record.Star))

	_, err = submitStar(nodeURL, privateKey, json.RawMessage(`not json`))
	require.Error(t, err)
}

func TestRequestChallengeErrors(t *testing.T) {
	nodeURL := newNode(t)

	_, err := requestChallenge(nodeURL, "")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "status 400"))
}
