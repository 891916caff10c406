package worker

import (
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/peer"
)

// peerOperations handles finding new peers.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.peerTicker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation updates the peer list from the known peers' own lists.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.queryPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: runPeersOperation: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			w.state.RemoveKnownPeer(pr)
			continue
		}

		// Add new peers to this node's list.
		w.addNewPeers(peerStatus.KnownPeers)
	}
}

// queryPeerStatus asks the specified peer for its chain status and
// known peers.
func (w *Worker) queryPeerStatus(pr peer.Peer) (peer.Status, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(w.baseURL, pr.Host))

	var status peer.Status
	if err := send("GET", url, nil, &status); err != nil {
		return peer.Status{}, err
	}

	return status, nil
}

// addNewPeers takes the list of known peers and makes sure they are included
// in this node's list of known peers.
func (w *Worker) addNewPeers(knownPeers []peer.Peer) {
	w.evHandler("worker: runPeersOperation: addNewPeers: started")
	defer w.evHandler("worker: runPeersOperation: addNewPeers: completed")

	for _, pr := range knownPeers {

		// Don't add this running node to the known peer list.
		if pr.Match(w.state.RetrieveHost()) {
			continue
		}

		if w.state.AddKnownPeer(pr) {
			w.evHandler("worker: runPeersOperation: addNewPeers: adding peer-node %s", pr.Host)
		}
	}
}
