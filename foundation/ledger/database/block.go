package database

import (
	"errors"
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// ErrCorruptBlock is returned when a stored block carries an id that does
// not match its contents.
var ErrCorruptBlock = errors.New("block id does not match contents")

// =============================================================================

// Block represents an ordered group of transactions linked to its
// predecessor by id. Transaction order is significant: the block id depends
// on it. A nil PrevBlockID marks the block that starts a chain.
//
// A block is only mutable through SetPrevBlockID and only until it has been
// appended to a chain. The chain stores its own copy on append, so blocks
// read back from a chain are immutable by construction.
type Block struct {
	ID           encode.Digest `json:"id"`
	Transactions []Tx          `json:"transactions"`
	PrevBlockID  encode.Digest `json:"prev_block_id,omitempty"`
}

// NewBlock constructs a new block and derives its id.
func NewBlock(transactions []Tx, prevBlockID encode.Digest) Block {
	return Block{
		ID:           BlockID(transactions, prevBlockID),
		Transactions: transactions,
		PrevBlockID:  prevBlockID,
	}
}

// BlockID derives the content address for the specified block fields.
func BlockID(transactions []Tx, prevBlockID encode.Digest) encode.Digest {
	var e encode.Encoder
	encodeBlock(&e, transactions, prevBlockID)

	return encode.Hash(e.Data())
}

// SetPrevBlockID replaces the predecessor reference and re-derives the block
// id. The chain calls this on append; nothing else should call it once a
// block has been handed to a chain.
func (b *Block) SetPrevBlockID(prevBlockID encode.Digest) {
	b.PrevBlockID = prevBlockID
	b.ID = BlockID(b.Transactions, b.PrevBlockID)
}

// Encode returns the binary encoding of the block: the transaction sequence
// followed by the optional predecessor id. The block's own id is not part of
// the encoding since it is derived from these bytes.
func (b Block) Encode() []byte {
	var e encode.Encoder
	encodeBlock(&e, b.Transactions, b.PrevBlockID)

	return e.Data()
}

// Equals reports whether two blocks are structurally identical.
func (b Block) Equals(otherBlock Block) bool {
	if !b.ID.Equal(otherBlock.ID) || !b.PrevBlockID.Equal(otherBlock.PrevBlockID) {
		return false
	}

	if len(b.Transactions) != len(otherBlock.Transactions) {
		return false
	}

	for i, tx := range b.Transactions {
		if !tx.Equals(otherBlock.Transactions[i]) {
			return false
		}
	}

	return true
}

// encodeBlock appends the block fields to an in-progress encoding.
func encodeBlock(e *encode.Encoder, transactions []Tx, prevBlockID encode.Digest) {
	e.Uint64(uint64(len(transactions)))
	for _, tx := range transactions {
		tx.encode(e)
	}
	e.Option(prevBlockID)
}

// =============================================================================

// DecodeBlock reconstructs a block from its binary encoding. Every contained
// transaction has its id recomputed and verified; the block id is derived
// from the decoded contents.
func DecodeBlock(data []byte) (Block, error) {
	d := encode.NewDecoder(data)

	block, err := decodeBlock(d)
	if err != nil {
		return Block{}, err
	}

	if err := d.Finish(); err != nil {
		return Block{}, err
	}

	return block, nil
}

// decodeBlock consumes one block from an in-progress decoding.
func decodeBlock(d *encode.Decoder) (Block, error) {
	count, err := d.Uint64()
	if err != nil {
		return Block{}, err
	}

	var transactions []Tx
	for i := uint64(0); i < count; i++ {
		tx, err := decodeTx(d)
		if err != nil {
			return Block{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, tx)
	}

	prevBlockID, err := d.Option()
	if err != nil {
		return Block{}, err
	}

	return NewBlock(transactions, prevBlockID), nil
}
