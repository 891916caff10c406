package state

import (
	"github.com/anovaledger/anova/foundation/ledger/peer"
)

// AddKnownPeer provides the ability to add a new peer to the known peer list.
func (s *State) AddKnownPeer(p peer.Peer) bool {
	if s.knownPeers == nil {
		return false
	}

	return s.knownPeers.Add(p)
}

// RemoveKnownPeer provides the ability to remove a peer from the known
// peer list.
func (s *State) RemoveKnownPeer(p peer.Peer) {
	if s.knownPeers == nil {
		return
	}

	s.knownPeers.Remove(p)
}
