package encode_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Encoding(t *testing.T) {
	t.Log("Given the need to validate the binary encoding.")
	{
		t.Logf("\tTest 0:\tWhen encoding a byte sequence followed by a u64.")
		{
			var e encode.Encoder
			e.Bytes([]byte{0, 1, 2, 3, 4})
			e.Uint64(42)

			exp := []byte{
				5, 0, 0, 0, 0, 0, 0, 0,
				0, 1, 2, 3, 4,
				42, 0, 0, 0, 0, 0, 0, 0,
			}

			if !bytes.Equal(e.Data(), exp) {
				t.Logf("\t\tTest 0:\tgot: %v", e.Data())
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould get back the pinned encoding.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the pinned encoding.", success)
		}

		t.Logf("\tTest 1:\tWhen encoding optional values.")
		{
			var e encode.Encoder
			e.Option(nil)
			e.Option([]byte{1, 2, 3, 4})

			exp := []byte{
				0,
				1, 4, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4,
			}

			if !bytes.Equal(e.Data(), exp) {
				t.Logf("\t\tTest 1:\tgot: %v", e.Data())
				t.Logf("\t\tTest 1:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 1:\tShould encode None as a tag and Some as a tag plus payload.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould encode None as a tag and Some as a tag plus payload.", success)
		}
	}
}

func Test_RoundTrip(t *testing.T) {
	t.Log("Given the need to validate encoded values decode back to themselves.")
	{
		t.Logf("\tTest 0:\tWhen handling a u64, a byte sequence and an option.")
		{
			var e encode.Encoder
			e.Uint64(1_000_000)
			e.Bytes([]byte{9, 8, 7})
			e.Option([]byte{5, 5})

			d := encode.NewDecoder(e.Data())

			v, err := d.Uint64()
			if err != nil || v != 1_000_000 {
				t.Fatalf("\t%s\tTest 0:\tShould decode the u64 back: %v, %v", failed, v, err)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the u64 back.", success)

			b, err := d.Bytes()
			if err != nil || !bytes.Equal(b, []byte{9, 8, 7}) {
				t.Fatalf("\t%s\tTest 0:\tShould decode the byte sequence back: %v, %v", failed, b, err)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the byte sequence back.", success)

			o, err := d.Option()
			if err != nil || !bytes.Equal(o, []byte{5, 5}) {
				t.Fatalf("\t%s\tTest 0:\tShould decode the option back: %v, %v", failed, o, err)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the option back.", success)

			if err := d.Finish(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould consume all the input: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould consume all the input.", success)
		}
	}
}

func Test_DecodeFailures(t *testing.T) {
	t.Log("Given the need to validate malformed input is rejected.")
	{
		t.Logf("\tTest 0:\tWhen the input is truncated.")
		{
			d := encode.NewDecoder([]byte{5, 0, 0})
			if _, err := d.Uint64(); !errors.Is(err, encode.ErrDecode) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a short u64: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a short u64.", success)

			d = encode.NewDecoder([]byte{5, 0, 0, 0, 0, 0, 0, 0, 1, 2})
			if _, err := d.Bytes(); !errors.Is(err, encode.ErrDecode) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a byte sequence shorter than its length: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a byte sequence shorter than its length.", success)
		}

		t.Logf("\tTest 1:\tWhen the option tag is unknown.")
		{
			d := encode.NewDecoder([]byte{2})
			if _, err := d.Option(); !errors.Is(err, encode.ErrDecode) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an unknown option tag: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an unknown option tag.", success)
		}

		t.Logf("\tTest 2:\tWhen trailing bytes remain after decoding.")
		{
			d := encode.NewDecoder([]byte{1, 0, 0, 0, 0, 0, 0, 0, 99})
			if _, err := d.Uint64(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould decode the u64: %v", failed, err)
			}
			if err := d.Finish(); !errors.Is(err, encode.ErrDecode) {
				t.Fatalf("\t%s\tTest 2:\tShould reject trailing input: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject trailing input.", success)
		}
	}
}
