// Package private maintains the group of handlers for node administration.
package private

import (
	"context"
	"net/http"

	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/ardanlabs/starnotary/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	status := struct {
		Height          int64  `json:"height"`
		LatestBlockHash string `json:"latestBlockHash"`
		Valid           bool   `json:"valid"`
	}{
		Height:          h.State.RetrieveChainHeight(),
		LatestBlockHash: latestBlock.Hash,
		Valid:           len(h.State.QueryChainValidation()) == 0,
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// ValidateChain validates every block and returns the errors found. An
// empty list means the chain is intact.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Errors []string `json:"errors"`
	}{
		Errors: h.State.QueryChainValidation(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
