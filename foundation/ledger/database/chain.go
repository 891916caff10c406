package database

// Chain is the append-only sequence of blocks. The chain is the sole
// authority for predecessor linkage: Append rebinds the incoming block to
// the current tip no matter what the caller set, so every block at position
// i > 0 references the id of the block at position i-1.
type Chain struct {
	blocks []Block
}

// New constructs an empty chain with room for the specified number of blocks.
func New(initCapacity int) *Chain {
	return &Chain{
		blocks: make([]Block, 0, initCapacity),
	}
}

// Append links the specified block to the current tip, re-deriving its id,
// and appends it. The new height is returned. Callers must not rely on the
// block id they computed before the call.
func (c *Chain) Append(block Block) uint64 {
	var prevBlockID []byte
	if last, exists := c.Last(); exists {
		prevBlockID = last.ID
	}
	block.SetPrevBlockID(prevBlockID)

	c.blocks = append(c.blocks, block)

	return uint64(len(c.blocks) - 1)
}

// Height returns the position of the tip. The second return is false when
// the chain is empty and the height is undefined.
func (c *Chain) Height() (uint64, bool) {
	if len(c.blocks) == 0 {
		return 0, false
	}

	return uint64(len(c.blocks) - 1), true
}

// Get returns the block at the specified position.
func (c *Chain) Get(index uint64) (Block, bool) {
	if index >= uint64(len(c.blocks)) {
		return Block{}, false
	}

	return c.blocks[index], true
}

// Last returns the block at the tip.
func (c *Chain) Last() (Block, bool) {
	if len(c.blocks) == 0 {
		return Block{}, false
	}

	return c.blocks[len(c.blocks)-1], true
}
