package storage

import (
	"errors"
	"sync"

	"github.com/anovaledger/anova/foundation/ledger/database"
)

// Memory represents an in-memory implementation of the database.Storage
// interface for ephemeral nodes and tests.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.Block
}

// NewMemory constructs a Memory value for use.
func NewMemory() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Write stores the specified block in memory.
func (m *Memory) Write(height uint64, block database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if height != uint64(len(m.blocks)) {
		return errors.New("block height is not the next height")
	}
	m.blocks = append(m.blocks, block)

	return nil
}

// GetBlock returns the block stored at the specified height.
func (m *Memory) GetBlock(height uint64) (database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if height >= uint64(len(m.blocks)) {
		return database.Block{}, errors.New("block does not exist")
	}

	return m.blocks[height], nil
}

// ForEach returns an iterator to walk through the stored blocks.
func (m *Memory) ForEach() database.Iterator {
	return &MemoryIterator{memory: m}
}

// Reset clears out all the stored blocks.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil

	return nil
}

// =============================================================================

// MemoryIterator represents the iteration implementation for walking through
// the blocks held in memory. This implements the database.Iterator interface.
type MemoryIterator struct {
	memory  *Memory
	current uint64
	started bool
	eoc     bool
}

// Next retrieves the next block from memory.
func (mi *MemoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, errors.New("end of chain")
	}

	if mi.started {
		mi.current++
	}
	mi.started = true

	block, err := mi.memory.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	return block, err
}

// Done returns the end of chain value.
func (mi *MemoryIterator) Done() bool {
	return mi.eoc
}
