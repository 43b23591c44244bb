// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/starnotary/business/sys/metrics"
	"github.com/ardanlabs/starnotary/business/sys/validate"
	"github.com/ardanlabs/starnotary/business/web/errs"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/ardanlabs/starnotary/foundation/events"
	"github.com/ardanlabs/starnotary/foundation/nameservice"
	"github.com/ardanlabs/starnotary/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Height returns the height of the latest block.
func (h Handlers) Height(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, height{Height: h.State.RetrieveChainHeight()}, http.StatusOK)
}

// Challenge issues the message the address must sign to submit a record.
func (h Handlers) Challenge(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req challengeRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.FromDecode(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	resp := challengeResponse{
		Message:   h.State.RequestChallenge(req.Address),
		ExpiresIn: int64(h.State.RetrieveChallengeWindow() / time.Second),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitRecord validates the signed challenge and seals the star into a new
// block.
func (h Handlers) SubmitRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.FromDecode(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("submit record", "traceid", v.TraceID, "address", req.Address)

	block, err := h.State.SubmitRecord(ctx, req.Address, req.Message, req.Signature, req.Star)
	if err != nil {
		metrics.AddRejection(errs.Reason(err))
		return errs.FromSubmit(err)
	}

	metrics.AddRecord(block.Height)

	return web.Respond(ctx, w, block, http.StatusCreated)
}

// BlockByHash returns the block with the specified hash.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	block, found := h.State.QueryBlockByHash(hash)
	if !found {
		return errs.NewTrusted(fmt.Errorf("block %s not found", hash), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// BlockByHeight returns the block at the specified height.
func (h Handlers) BlockByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	heightStr := web.Param(r, "height")

	blockHeight, err := strconv.ParseUint(heightStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(errors.New("height must be a non negative integer"), http.StatusBadRequest)
	}

	block, found := h.State.QueryBlockByHeight(blockHeight)
	if !found {
		return errs.NewTrusted(fmt.Errorf("block %d not found", blockHeight), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// RecordsByAddress returns every record submitted by the address in chain
// order.
func (h Handlers) RecordsByAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	stRecords := h.State.QueryRecordsByIdentity(address)

	records := make([]record, len(stRecords))
	for i, rec := range stRecords {
		records[i] = record{
			Address:   rec.Address,
			Name:      h.NS.Lookup(rec.Address),
			Message:   rec.Message,
			Signature: rec.Signature,
			Star:      rec.Star,
		}
	}

	return web.Respond(ctx, w, records, http.StatusOK)
}
