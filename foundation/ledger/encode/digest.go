package encode

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DigestSize is the width in bytes of a Keccak-256 digest.
const DigestSize = 32

// Digest represents a hash-derived identifier. Digests produced by Hash are
// always DigestSize bytes; the type itself places no restriction on length
// since predecessor references and senders are opaque byte strings.
type Digest []byte

// Equal reports whether two digests carry the same bytes.
func (d Digest) Equal(d2 Digest) bool {
	return bytes.Equal(d, d2)
}

// String returns the conventional hex form for logging.
func (d Digest) String() string {
	if d == nil {
		return "none"
	}
	return hexutil.Encode(d)
}

// MarshalText implements encoding.TextMarshaler producing the hex form.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(d)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler accepting the hex form.
func (d *Digest) UnmarshalText(text []byte) error {
	b, err := hexutil.Decode(string(text))
	if err != nil {
		return err
	}
	*d = b
	return nil
}
