// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/anovaledger/anova/business/web/v1"
	"github.com/anovaledger/anova/foundation/events"
	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
	"github.com/anovaledger/anova/foundation/ledger/state"
	"github.com/anovaledger/anova/foundation/web"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
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

// SubmitTransaction adds a new user transaction to the mempool and signals
// the worker to share it with the known peers.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app newTx
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	sender, err := hexutil.Decode(app.Sender)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid sender: %w", err), http.StatusBadRequest)
	}
	if len(sender) != encode.DigestSize {
		return v1.NewRequestError(errors.New("invalid sender: wrong length"), http.StatusBadRequest)
	}

	tx := database.NewTx(sender, app.Nonce)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx)
	h.State.SubmitTransaction(tx)

	resp := submitResponse{
		Status: "transaction added to mempool",
		Tx:     tx,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Height returns the index of the latest block on the chain. The height is
// omitted while the chain is empty.
func (h Handlers) Height(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := heightResponse{}
	if height, exists := h.State.RetrieveHeight(); exists {
		resp.Height = &height
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlockByHeight returns the block stored at the specified height.
func (h Handlers) BlockByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid height: %w", err), http.StatusBadRequest)
	}

	block, exists := h.State.RetrieveBlock(height)
	if !exists {
		return v1.NewRequestError(errors.New("block not found"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions in proposal order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// Sample returns summary information about this node.
func (h Handlers) Sample(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := sampleResponse{
		Account: h.State.RetrieveAccountID().String(),
		Mempool: h.State.RetrieveMempoolLength(),
		Peers:   len(h.State.RetrieveKnownPeers()),
	}
	if height, exists := h.State.RetrieveHeight(); exists {
		resp.Height = &height
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
