package state

import (
	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
	"github.com/anovaledger/anova/foundation/ledger/peer"
)

// RetrieveHost returns a copy of the host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveAccountID returns the sender id this node creates transactions
// under, or nil when the node has no identity.
func (s *State) RetrieveAccountID() encode.Digest {
	return s.accountID
}

// RetrieveHeight returns the current chain height. The second return is
// false when the chain is empty.
func (s *State) RetrieveHeight() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Height()
}

// RetrieveTip returns the id of the block at the tip of the chain, or nil
// when the chain is empty.
func (s *State) RetrieveTip() encode.Digest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, exists := s.chain.Last(); exists {
		return last.ID
	}

	return nil
}

// RetrieveBlock returns the block at the specified height.
func (s *State) RetrieveBlock(height uint64) (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Get(height)
}

// RetrieveMempool returns a copy of the pending transactions in index order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.All()
}

// RetrieveMempoolLength returns the current length of the mempool.
func (s *State) RetrieveMempoolLength() int {
	return s.mempool.Count()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	if s.knownPeers == nil {
		return nil
	}

	return s.knownPeers.Copy(s.host)
}
