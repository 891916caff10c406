// Package mempool maintains the pool of pending transactions keyed by their
// tip-bound index. The index is not the transaction id: it is derived from
// the transaction id and the current chain tip, so the orchestrator re-keys
// the pool after every finalization.
package mempool

import (
	"sort"
	"sync"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// Mempool represents a cache of pending transactions organized by index.
// The backing map is unordered; ordering is applied at read time so that
// every node holding the same pool content proposes the same block bytes.
type Mempool struct {
	mu   sync.RWMutex
	pool map[string]database.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Tx),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Insert adds or replaces the transaction stored under the specified index.
func (mp *Mempool) Insert(index encode.Digest, tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[string(index)] = tx
}

// Has reports whether a transaction is stored under the specified index.
func (mp *Mempool) Has(index encode.Digest) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[string(index)]
	return exists
}

// Remove deletes the transactions stored under the specified indexes and
// returns how many were actually present. Absent indexes are not an error.
func (mp *Mempool) Remove(indexes []encode.Digest) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	for _, index := range indexes {
		if _, exists := mp.pool[string(index)]; exists {
			delete(mp.pool, string(index))
			removed++
		}
	}

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
}

// All returns every pending transaction in ascending index byte order, or
// nil when the pool is empty. Block proposals depend on this order being
// deterministic.
func (mp *Mempool) All() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if len(mp.pool) == 0 {
		return nil
	}

	indexes := make([]string, 0, len(mp.pool))
	for index := range mp.pool {
		indexes = append(indexes, index)
	}
	sort.Strings(indexes)

	txs := make([]database.Tx, 0, len(indexes))
	for _, index := range indexes {
		txs = append(txs, mp.pool[index])
	}

	return txs
}
