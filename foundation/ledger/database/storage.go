package database

// Storage interface represents the behavior required to be implemented by
// any package providing support for persisting blocks beneath the chain.
type Storage interface {
	Write(height uint64, block Block) error
	GetBlock(height uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}
