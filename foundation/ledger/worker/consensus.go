package worker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/peer"
	"github.com/anovaledger/anova/foundation/ledger/snowball"
	"github.com/anovaledger/anova/foundation/ledger/state"
)

// maxRounds bounds a single consensus operation so a partitioned network
// can't wedge the loop forever. The next signal or tick starts over.
const maxRounds = 64

// =============================================================================

// consensusOperations handles proposing and finalizing blocks.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	for {
		select {
		case <-w.startConsensus:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.proposalTicker.C:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation proposes a block over the pending transactions and
// drives a snowball instance over the peers' preferences until the decision
// is stable, then finalizes the decided block.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	proposal, err := w.state.ProposeBlock()
	if err != nil {
		if !errors.Is(err, state.ErrNoTransactions) {
			w.evHandler("worker: runConsensusOperation: ERROR: %s", err)
		}
		return
	}

	peers := w.state.RetrieveKnownPeers()

	// With nobody to sample there is nothing to disagree about. Finalize
	// the local proposal directly.
	if len(peers) == 0 {
		w.evHandler("worker: runConsensusOperation: no peers: finalizing local proposal")
		w.finalize(proposal)
		return
	}

	sb, err := snowball.New(snowball.Config[string]{
		SampleSize:        w.params.SampleSize,
		QuorumSize:        w.params.QuorumSize,
		DecisionThreshold: w.params.DecisionThreshold,
		Compare:           strings.Compare,
	})
	if err != nil {
		w.evHandler("worker: runConsensusOperation: ERROR: %s", err)
		return
	}

	// Track the full block behind every id we vote on so the decided id
	// can be finalized no matter which node proposed it.
	candidates := map[string]database.Block{
		string(proposal.ID): proposal,
	}

	for round := 0; round < maxRounds && !sb.Done(); round++ {
		if w.isShutdown() {
			return
		}

		// This node's own vote follows its current preference.
		vote := string(proposal.ID)
		if pref, exists := sb.Preference(); exists {
			vote = pref
		}
		votes := []string{vote}

		// Sample the peers' preferred proposals.
		sampled := uint(1)
		for _, peer := range peers {
			if sampled >= w.params.SampleSize {
				break
			}

			peerProposal, err := w.queryPeerProposal(peer)
			if err != nil {
				w.evHandler("worker: runConsensusOperation: query %s: WARNING: %s", peer.Host, err)
				continue
			}

			candidates[string(peerProposal.ID)] = peerProposal
			votes = append(votes, string(peerProposal.ID))
			sampled++
		}

		if err := sb.Tick(votes); err != nil {
			w.evHandler("worker: runConsensusOperation: tick: ERROR: %s", err)
			return
		}
	}

	if !sb.Done() {
		w.evHandler("worker: runConsensusOperation: no convergence after %d rounds", maxRounds)
		return
	}

	decided, _ := sb.Preference()
	winner, exists := candidates[decided]
	if !exists {
		w.evHandler("worker: runConsensusOperation: decided block not among candidates")
		return
	}

	w.finalize(winner)
}

// finalize appends the decided block to the chain and shares the final copy
// with the known peers so nodes that missed the decision catch up.
func (w *Worker) finalize(block database.Block) {
	height, err := w.state.FinalizeBlock(block)
	if err != nil {
		w.evHandler("worker: finalize: ERROR: %s", err)
		return
	}

	w.evHandler("worker: finalize: block[%s] at height[%d]", block.ID, height)

	// The chain rebinds the predecessor on append, so peers get the copy
	// that actually made it onto the chain.
	final, exists := w.state.RetrieveBlock(height)
	if !exists {
		return
	}
	w.sendBlockToPeers(final)
}

// sendBlockToPeers shares a finalized block with all the known peers.
func (w *Worker) sendBlockToPeers(block database.Block) {
	w.evHandler("worker: sendBlockToPeers: started")
	defer w.evHandler("worker: sendBlockToPeers: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/block", fmt.Sprintf(w.baseURL, pr.Host))

		var result struct {
			Status string `json:"status"`
			Height uint64 `json:"height"`
		}
		if err := send("POST", url, block, &result); err != nil {
			w.evHandler("worker: sendBlockToPeers: WARNING: %s", err)
		}
	}
}

// queryPeerProposal asks the specified peer for its currently preferred
// proposal for the next block.
func (w *Worker) queryPeerProposal(pr peer.Peer) (database.Block, error) {
	url := fmt.Sprintf("%s/proposed", fmt.Sprintf(w.baseURL, pr.Host))

	var block database.Block
	if err := send("GET", url, nil, &block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}
