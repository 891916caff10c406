// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/anovaledger/anova/business/web/v1"
	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/peer"
	"github.com/anovaledger/anova/foundation/ledger/state"
	"github.com/anovaledger/anova/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of this node so peers can learn the
// chain tip, the height and the rest of the network.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := peer.Status{
		Tip:        h.State.RetrieveTip(),
		KnownPeers: h.State.RetrieveKnownPeers(),
	}
	if height, exists := h.State.RetrieveHeight(); exists {
		status.Height = &height
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Proposed returns the block this node proposes for the next height. Peers
// sample this endpoint during consensus rounds.
func (h Handlers) Proposed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.ProposeBlock()
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("add node tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.SubmitNodeTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProcessBlock takes a block a peer has decided on, validates it and
// finalizes it against the local chain.
func (h Handlers) ProcessBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	height, err := h.State.ProcessProposedBlock(block)
	if err != nil {
		if errors.Is(err, state.ErrAlreadyFinalized) {
			resp := struct {
				Status string `json:"status"`
			}{
				Status: "block already finalized",
			}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}

		return v1.NewRequestError(errors.New("block not accepted"), http.StatusNotAcceptable)
	}

	h.Log.Infow("block accepted", "traceid", v.TraceID, "height", height, "txs", len(block.Transactions))

	resp := struct {
		Status string `json:"status"`
		Height uint64 `json:"height"`
	}{
		Status: "block accepted",
		Height: height,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
