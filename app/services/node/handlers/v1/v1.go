// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/anovaledger/anova/app/services/node/handlers/v1/private"
	"github.com/anovaledger/anova/app/services/node/handlers/v1/public"
	"github.com/anovaledger/anova/foundation/events"
	"github.com/anovaledger/anova/foundation/ledger/state"
	"github.com/anovaledger/anova/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/chain/height", pbl.Height)
	app.Handle(http.MethodGet, version, "/chain/block/:height", pbl.BlockByHeight)
	app.Handle(http.MethodGet, version, "/mempool", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/sample", pbl.Sample)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/proposed", prv.Proposed)
	app.Handle(http.MethodPost, version, "/node/tx", prv.SubmitNodeTransaction)
	app.Handle(http.MethodPost, version, "/node/block", prv.ProcessBlock)
}
