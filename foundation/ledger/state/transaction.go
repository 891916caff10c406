package state

import (
	"errors"
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// ErrNoIdentity is returned when a node without a private key is asked to
// create a transaction of its own.
var ErrNoIdentity = errors.New("node has no signing identity")

// =============================================================================

// CreateTransaction constructs a new transaction initiated by this node,
// using the node's account id as the sender and consuming the node's nonce,
// and adds it to the mempool.
func (s *State) CreateTransaction() (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.privateKey == nil {
		return database.Tx{}, ErrNoIdentity
	}

	tx := database.NewTx(s.accountID, s.nonce)
	s.nonce++

	s.addTransaction(tx)
	s.evHandler("state: CreateTransaction: tx[%s] added to mempool", tx)

	return tx, nil
}

// AddTransaction computes the tip-bound index for the specified transaction
// and inserts it into the mempool. This is how transactions received from
// the network enter the node.
func (s *State) AddTransaction(tx database.Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addTransaction(tx)
	s.evHandler("state: AddTransaction: tx[%s] added to mempool", tx)
}

// SubmitTransaction accepts a transaction from a client, adds it to the
// mempool, and signals the worker to share it with the known peers and to
// attempt a consensus round.
func (s *State) SubmitTransaction(tx database.Tx) {
	s.AddTransaction(tx)

	if s.Worker != nil {
		s.Worker.SignalShareTx(tx)
		s.Worker.SignalStartConsensus()
	}
}

// SubmitNodeTransaction accepts a transaction shared by a peer node. The
// transaction id is re-derived from the sender and nonce before the
// transaction is accepted into the mempool. The worker is signalled to
// attempt consensus but the transaction is not shared again.
func (s *State) SubmitNodeTransaction(tx database.Tx) error {
	if id := database.TxID(tx.Sender, tx.Nonce); !tx.ID.Equal(id) {
		return fmt.Errorf("%w: stored %s, derived %s", database.ErrCorruptTransaction, tx.ID, id)
	}

	s.AddTransaction(tx)

	if s.Worker != nil {
		s.Worker.SignalStartConsensus()
	}

	return nil
}

// AddTransactions inserts each of the specified transactions into the mempool.
func (s *State) AddTransactions(txs []database.Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		s.addTransaction(tx)
	}
	s.evHandler("state: AddTransactions: %d txs added to mempool", len(txs))
}

// addTransaction inserts under the current tip. Callers must hold the mutex.
func (s *State) addTransaction(tx database.Tx) {
	s.mempool.Insert(s.transactionIndex(tx), tx)
}

// transactionIndex derives the mempool key for the specified transaction:
// the hash of the transaction id bound to the current chain tip. The index
// changes with every finalization, which is what keeps mempool iteration
// order a pure function of the pending set. Callers must hold the mutex.
func (s *State) transactionIndex(tx database.Tx) encode.Digest {
	var tipID encode.Digest
	if last, exists := s.chain.Last(); exists {
		tipID = last.ID
	}

	var e encode.Encoder
	e.Bytes(tx.ID)
	e.Option(tipID)

	return encode.Hash(e.Data())
}
