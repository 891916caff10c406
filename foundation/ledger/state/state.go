// Package state is the core API for the ledger node and implements the
// orchestration between the chain, the mempool, and block finalization.
package state

import (
	"crypto/ecdsa"
	"sync"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
	"github.com/anovaledger/anova/foundation/ledger/mempool"
	"github.com/anovaledger/anova/foundation/ledger/peer"
)

// initChainCapacity is the number of blocks the chain reserves room for
// up front.
const initChainCapacity = 1000

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for running the consensus loop and sharing
// transactions with peers.
type Worker interface {
	Shutdown()
	SignalStartConsensus()
	SignalShareTx(tx database.Tx)
}

// =============================================================================

// Config represents the configuration required to start the node state.
type Config struct {
	Host       string
	PrivateKey *ecdsa.PrivateKey
	Storage    database.Storage
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the node's view of the ledger. All mutation goes through the
// mutex; the chain and nonce underneath assume single-owner access.
type State struct {
	mu sync.Mutex

	host       string
	privateKey *ecdsa.PrivateKey
	accountID  encode.Digest
	evHandler  EventHandler

	knownPeers *peer.PeerSet
	storage    database.Storage
	chain      *database.Chain
	mempool    *mempool.Mempool
	nonce      uint64

	Worker Worker
}

// New constructs a new node state, reloading any blocks held by the
// configured storage. Replaying the stored blocks through Append reproduces
// the exact linkage the chain had when they were written.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// A node without an identity can still relay transactions and take part
	// in consensus; it just can't create transactions of its own.
	var accountID encode.Digest
	if cfg.PrivateKey != nil {
		accountID = database.PublicKeyToAccountID(cfg.PrivateKey.PublicKey)
	}

	s := State{
		host:       cfg.Host,
		privateKey: cfg.PrivateKey,
		accountID:  accountID,
		evHandler:  ev,

		knownPeers: cfg.KnownPeers,
		storage:    cfg.Storage,
		chain:      database.New(initChainCapacity),
		mempool:    mempool.New(),
		nonce:      1,
	}

	// Load all existing blocks from storage into the chain.
	if cfg.Storage != nil {
		iter := cfg.Storage.ForEach()
		for {
			block, err := iter.Next()
			if iter.Done() {
				break
			}
			if err != nil {
				return nil, err
			}

			height := s.chain.Append(block)
			ev("state: New: reloaded block[%d]: %s", height, block.ID)
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the background processing for the node.

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the storage is properly closed.
	defer func() {
		if s.storage != nil {
			s.storage.Close()
		}
	}()

	// Stop all consensus and sharing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
