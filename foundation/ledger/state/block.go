package state

import (
	"errors"
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// ErrNoTransactions is returned when a block is requested to be proposed
// and there are no transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// ProposeBlock returns a candidate block over every pending transaction in
// index order, linked to the current tip. State is not mutated: proposing is
// a pure function of the pending set and the tip, so every node holding the
// same pool proposes the identical block.
func (s *State) ProposeBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.mempool.All()
	if txs == nil {
		return database.Block{}, ErrNoTransactions
	}

	var tipID encode.Digest
	if last, exists := s.chain.Last(); exists {
		tipID = last.ID
	}

	block := database.NewBlock(txs, tipID)
	s.evHandler("state: ProposeBlock: block[%s] over %d txs", block.ID, len(txs))

	return block, nil
}

// ErrAlreadyFinalized is returned when a block shared by a peer carries no
// transactions this node still has pending.
var ErrAlreadyFinalized = errors.New("block transactions are not pending")

// ProcessProposedBlock accepts a block that a peer has decided on. Every
// transaction id is re-derived, and at least one transaction must still be
// pending locally so a block this node already finalized through its own
// consensus round is not appended a second time. The pending check and the
// finalization happen under one lock acquisition so two arrivals of the
// same block can't both pass the check.
func (s *State) ProcessProposedBlock(block database.Block) (uint64, error) {
	for i, tx := range block.Transactions {
		if id := database.TxID(tx.Sender, tx.Nonce); !tx.ID.Equal(id) {
			return 0, fmt.Errorf("transaction %d: %w: stored %s, derived %s", i, database.ErrCorruptTransaction, tx.ID, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pending int
	for _, tx := range block.Transactions {
		if s.mempool.Has(s.transactionIndex(tx)) {
			pending++
		}
	}
	if pending == 0 {
		return 0, ErrAlreadyFinalized
	}

	return s.finalizeBlock(block)
}

// FinalizeBlock appends the decided block to the chain, removes its
// transactions from the mempool, and rebinds every surviving entry against
// the new tip. The chain relinks the block's predecessor on append, so the
// caller must not rely on the block id being stable across this call. The
// new height is returned.
func (s *State) FinalizeBlock(block database.Block) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finalizeBlock(block)
}

// finalizeBlock performs the append, mempool removal, and rebinding.
// Callers must hold the mutex. The chain and mempool are brought to their
// final shape before the block is persisted, so a storage failure is
// reported without leaving finalized transactions pending.
func (s *State) finalizeBlock(block database.Block) (uint64, error) {
	s.evHandler("state: FinalizeBlock: block[%s] with %d txs", block.ID, len(block.Transactions))

	// Capture the indexes the mempool currently holds these transactions
	// under. This has to happen before the append moves the tip.
	indexes := make([]encode.Digest, len(block.Transactions))
	for i, tx := range block.Transactions {
		indexes[i] = s.transactionIndex(tx)
	}

	// Append the block to the chain. The chain rebinds the predecessor
	// reference and re-derives the block id.
	height := s.chain.Append(block)

	// Remove the finalized transactions from the mempool.
	removed := s.mempool.Remove(indexes)
	s.evHandler("state: FinalizeBlock: height[%d]: removed %d txs from mempool", height, removed)

	// Rebind the surviving entries: every index is a function of the tip,
	// and the tip just moved. Without this step newly inserted transactions
	// would be ordered against a different tip than the survivors.
	if txs := s.mempool.All(); txs != nil {
		s.mempool.Truncate()
		for _, tx := range txs {
			s.addTransaction(tx)
		}
		s.evHandler("state: FinalizeBlock: rebound %d pending txs", len(txs))
	}

	// Persist the appended copy, which carries the final id.
	if s.storage != nil {
		appended, _ := s.chain.Last()
		if err := s.storage.Write(height, appended); err != nil {
			return height, err
		}
	}

	return height, nil
}
