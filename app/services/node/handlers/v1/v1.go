// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/starnotary/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/starnotary/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/starnotary/business/web/mid"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/ardanlabs/starnotary/foundation/events"
	"github.com/ardanlabs/starnotary/foundation/nameservice"
	"github.com/ardanlabs/starnotary/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// RateLimit is the per client limit applied to challenge issuance. A zero
// RPS disables the limit.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *zap.SugaredLogger
	State     *state.State
	NS        *nameservice.NameService
	Evts      *events.Events
	RateLimit RateLimit
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	var limit []web.Middleware
	if cfg.RateLimit.RPS > 0 {
		limit = append(limit, mid.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/chain/height", pbl.Height)
	app.Handle(http.MethodPost, version, "/challenge", pbl.Challenge, limit...)
	app.Handle(http.MethodPost, version, "/records", pbl.SubmitRecord)
	app.Handle(http.MethodGet, version, "/blocks/hash/:hash", pbl.BlockByHash)
	app.Handle(http.MethodGet, version, "/blocks/height/:height", pbl.BlockByHeight)
	app.Handle(http.MethodGet, version, "/records/address/:address", pbl.RecordsByAddress)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/chain/validate", prv.ValidateChain)
}
