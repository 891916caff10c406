// Package encode implements the deterministic binary encoding the ledger uses
// to derive identifiers and to persist records. Integers are fixed-width
// little-endian, byte sequences carry a u64 length prefix, optional values
// carry a single tag byte, and composite values are the plain concatenation
// of their fields. The same bytes must be produced on every platform since
// identifiers are hashes of these encodings.
package encode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ErrDecode is returned for any malformed input: truncation, an invalid
// option tag, or trailing bytes past the last field.
var ErrDecode = errors.New("malformed binary encoding")

// Option tag values.
const (
	tagNone = 0x00
	tagSome = 0x01
)

// Hash returns the Keccak-256 digest of the specified data.
func Hash(data []byte) Digest {
	return Digest(crypto.Keccak256(data))
}

// =============================================================================

// Encoder accumulates the binary encoding of a sequence of fields.
// The zero value is ready for use.
type Encoder struct {
	data []byte
}

// Uint64 appends a fixed-width little-endian unsigned integer.
func (e *Encoder) Uint64(v uint64) {
	e.data = binary.LittleEndian.AppendUint64(e.data, v)
}

// Bytes appends a length-prefixed byte sequence.
func (e *Encoder) Bytes(b []byte) {
	e.Uint64(uint64(len(b)))
	e.data = append(e.data, b...)
}

// Option appends an optional byte sequence. A nil value encodes as the
// none tag alone; any other value encodes as the some tag followed by the
// length-prefixed bytes.
func (e *Encoder) Option(b []byte) {
	if b == nil {
		e.data = append(e.data, tagNone)
		return
	}
	e.data = append(e.data, tagSome)
	e.Bytes(b)
}

// Data returns the bytes encoded so far.
func (e *Encoder) Data() []byte {
	return e.data
}

// =============================================================================

// Decoder consumes a binary encoding field by field. Every read validates
// the input is long enough for the requested field.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder constructs a Decoder over the specified data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Uint64 reads a fixed-width little-endian unsigned integer.
func (d *Decoder) Uint64() (uint64, error) {
	if d.remaining() < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes for integer, have %d", ErrDecode, d.remaining())
	}

	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8

	return v, nil
}

// Bytes reads a length-prefixed byte sequence. The returned slice is a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	length, err := d.Uint64()
	if err != nil {
		return nil, err
	}

	if uint64(d.remaining()) < length {
		return nil, fmt.Errorf("%w: need %d bytes for sequence, have %d", ErrDecode, length, d.remaining())
	}

	b := make([]byte, length)
	copy(b, d.data[d.off:])
	d.off += int(length)

	return b, nil
}

// Option reads an optional byte sequence. A none value is returned as nil.
func (d *Decoder) Option() ([]byte, error) {
	if d.remaining() < 1 {
		return nil, fmt.Errorf("%w: missing option tag", ErrDecode)
	}

	tag := d.data[d.off]
	d.off++

	switch tag {
	case tagNone:
		return nil, nil
	case tagSome:
		return d.Bytes()
	}

	return nil, fmt.Errorf("%w: invalid option tag 0x%02x", ErrDecode, tag)
}

// Finish validates every byte of the input was consumed.
func (d *Decoder) Finish() error {
	if d.remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrDecode, d.remaining())
	}
	return nil
}

// remaining returns the number of unread bytes.
func (d *Decoder) remaining() int {
	return len(d.data) - d.off
}
