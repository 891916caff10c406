// Package database handles the core ledger records: content-addressed
// transactions, blocks linked by predecessor id, and the append-only chain
// they form. Identifiers are Keccak-256 digests of the deterministic binary
// encoding, so any change to a record's contents changes its id.
package database

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/encode"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrCorruptTransaction is returned when a decoded transaction carries an id
// that does not match its contents.
var ErrCorruptTransaction = errors.New("transaction id does not match contents")

// =============================================================================

// Tx is the transactional record. The sender is an opaque byte string,
// typically a digest of a public key; the database does not know what a
// valid sender is. A Tx is immutable once constructed.
type Tx struct {
	ID     encode.Digest `json:"id"`
	Sender encode.Digest `json:"sender"`
	Nonce  uint64        `json:"nonce"`
}

// NewTx constructs a new transaction and derives its id.
func NewTx(sender []byte, nonce uint64) Tx {
	return Tx{
		ID:     TxID(sender, nonce),
		Sender: sender,
		Nonce:  nonce,
	}
}

// TxID derives the content address for the specified transaction fields.
func TxID(sender []byte, nonce uint64) encode.Digest {
	var e encode.Encoder
	e.Bytes(sender)
	e.Uint64(nonce)

	return encode.Hash(e.Data())
}

// Encode returns the binary encoding of the transaction, id included. This
// is the form a transaction takes inside a block encoding.
func (tx Tx) Encode() []byte {
	var e encode.Encoder
	tx.encode(&e)

	return e.Data()
}

// encode appends the transaction fields to an in-progress encoding.
func (tx Tx) encode(e *encode.Encoder) {
	e.Bytes(tx.ID)
	e.Bytes(tx.Sender)
	e.Uint64(tx.Nonce)
}

// Equals reports whether two transactions are structurally identical over
// all three fields.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.ID.Equal(otherTx.ID) && bytes.Equal(tx.Sender, otherTx.Sender) && tx.Nonce == otherTx.Nonce
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	sender := hexutil.Encode(tx.Sender)
	if len(sender) > 8 {
		sender = sender[:8]
	}

	return fmt.Sprintf("%s:%d", sender, tx.Nonce)
}

// =============================================================================

// DecodeTx reconstructs a transaction from its binary encoding. The id is
// recomputed from the decoded fields and checked against the stored id.
func DecodeTx(data []byte) (Tx, error) {
	d := encode.NewDecoder(data)

	tx, err := decodeTx(d)
	if err != nil {
		return Tx{}, err
	}

	if err := d.Finish(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// decodeTx consumes one transaction from an in-progress decoding.
func decodeTx(d *encode.Decoder) (Tx, error) {
	id, err := d.Bytes()
	if err != nil {
		return Tx{}, err
	}

	sender, err := d.Bytes()
	if err != nil {
		return Tx{}, err
	}

	nonce, err := d.Uint64()
	if err != nil {
		return Tx{}, err
	}

	tx := NewTx(sender, nonce)
	if !tx.ID.Equal(id) {
		return Tx{}, fmt.Errorf("%w: stored %s, derived %s", ErrCorruptTransaction, encode.Digest(id), tx.ID)
	}

	return tx, nil
}
