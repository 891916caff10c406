package database_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_TransactionIdentity(t *testing.T) {
	t.Log("Given the need to validate a transaction id is the hash of its contents.")
	{
		t.Logf("\tTest 0:\tWhen constructing a transaction from a sender and nonce.")
		{
			tx := database.NewTx([]byte{1, 2, 3, 4, 5}, 42)

			exp := encode.Digest{242, 173, 79, 62, 149, 64, 34, 43, 218, 41, 24, 9, 145, 148, 96, 195, 129, 80, 125, 126, 255, 231, 209, 59, 221, 242, 186, 41, 33, 28, 79, 50}
			if !tx.ID.Equal(exp) {
				t.Logf("\t\tTest 0:\tgot: %v", tx.ID)
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould derive the pinned transaction id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the pinned transaction id.", success)
		}

		t.Logf("\tTest 1:\tWhen the transaction round-trips through its encoding.")
		{
			tx := database.NewTx([]byte{1, 2, 3, 4, 5}, 42)

			tx2, err := database.DecodeTx(tx.Encode())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould decode the transaction back: %v", failed, err)
			}
			if !tx.Equals(tx2) {
				t.Fatalf("\t%s\tTest 1:\tShould get back an equal transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get back an equal transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen the encoded transaction carries a tampered id.")
		{
			tx := database.NewTx([]byte{1, 2, 3, 4, 5}, 42)

			data := tx.Encode()
			data[8] ^= 0xFF

			if _, err := database.DecodeTx(data); !errors.Is(err, database.ErrCorruptTransaction) {
				t.Fatalf("\t%s\tTest 2:\tShould reject the corrupted transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the corrupted transaction.", success)
		}
	}
}

func Test_BlockIdentity(t *testing.T) {
	t.Log("Given the need to validate a block id covers its transactions and predecessor.")
	{
		t.Logf("\tTest 0:\tWhen constructing a block over three transactions with no predecessor.")
		{
			txs := []database.Tx{
				database.NewTx([]byte{0, 1, 2, 3, 4}, 1),
				database.NewTx([]byte{0, 1, 2, 3, 4}, 2),
				database.NewTx([]byte{5, 6, 7, 8, 9}, 1),
			}
			block := database.NewBlock(txs, nil)

			exp := encode.Digest{246, 134, 115, 10, 204, 145, 13, 37, 13, 114, 184, 74, 164, 48, 50, 144, 22, 104, 204, 116, 53, 94, 84, 254, 216, 22, 97, 58, 245, 188, 45, 21}
			if !block.ID.Equal(exp) {
				t.Logf("\t\tTest 0:\tgot: %v", block.ID)
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould derive the pinned block id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the pinned block id.", success)
		}

		t.Logf("\tTest 1:\tWhen the block round-trips through its encoding.")
		{
			txs := []database.Tx{
				database.NewTx([]byte{0, 1, 2, 3, 4}, 1),
				database.NewTx([]byte{5, 6, 7, 8, 9}, 1),
			}
			block := database.NewBlock(txs, []byte{1, 2, 3, 4})

			block2, err := database.DecodeBlock(block.Encode())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould decode the block back: %v", failed, err)
			}
			if !block.Equals(block2) {
				t.Fatalf("\t%s\tTest 1:\tShould get back an equal block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get back an equal block.", success)
		}
	}
}

func Test_BlockRelinking(t *testing.T) {
	t.Log("Given the need to validate relinking a block changes its id.")
	{
		t.Logf("\tTest 0:\tWhen the predecessor moves from None to a digest.")
		{
			block := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 1)}, nil)

			exp := encode.Digest{61, 76, 173, 32, 98, 204, 110, 230, 105, 241, 153, 253, 74, 212, 214, 61, 101, 52, 42, 176, 46, 29, 206, 216, 251, 40, 250, 159, 168, 103, 81, 99}
			if !block.ID.Equal(exp) {
				t.Logf("\t\tTest 0:\tgot: %v", block.ID)
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould derive the pinned unlinked id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the pinned unlinked id.", success)

			block.SetPrevBlockID([]byte{1, 2, 3, 4})

			exp = encode.Digest{137, 184, 196, 140, 0, 212, 191, 29, 101, 3, 16, 175, 81, 94, 71, 5, 59, 215, 214, 187, 147, 58, 226, 21, 220, 250, 77, 67, 131, 51, 91, 60}
			if !block.ID.Equal(exp) {
				t.Logf("\t\tTest 0:\tgot: %v", block.ID)
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould derive the pinned relinked id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the pinned relinked id.", success)
		}
	}
}

func Test_BlockEncoding(t *testing.T) {
	t.Log("Given the need to validate the block encoding byte for byte.")
	{
		t.Logf("\tTest 0:\tWhen encoding a block with one transaction and a predecessor.")
		{
			block := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 1)}, []byte{5, 6, 7, 8, 9})

			exp := []byte{
				1, 0, 0, 0, 0, 0, 0, 0,
				32, 0, 0, 0, 0, 0, 0, 0,
				196, 70, 213, 169, 141, 198, 53, 47, 112, 185, 125, 254, 146, 41, 135, 204, 30, 126, 28, 159, 0, 167, 6, 219, 32, 215, 216, 240, 151, 197, 172, 26,
				5, 0, 0, 0, 0, 0, 0, 0,
				0, 1, 2, 3, 4,
				1, 0, 0, 0, 0, 0, 0, 0,
				1,
				5, 0, 0, 0, 0, 0, 0, 0,
				5, 6, 7, 8, 9,
			}

			if !bytes.Equal(block.Encode(), exp) {
				t.Logf("\t\tTest 0:\tgot: %v", block.Encode())
				t.Logf("\t\tTest 0:\texp: %v", exp)
				t.Fatalf("\t%s\tTest 0:\tShould get back the pinned encoding.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the pinned encoding.", success)
		}
	}
}

func Test_Chain(t *testing.T) {
	t.Log("Given the need to validate appending blocks links them to the tip.")
	{
		t.Logf("\tTest 0:\tWhen appending two blocks to an empty chain.")
		{
			chain := database.New(10)

			if _, exists := chain.Height(); exists {
				t.Fatalf("\t%s\tTest 0:\tShould report no height for an empty chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report no height for an empty chain.", success)

			b1 := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 1)}, nil)
			height := chain.Append(b1)
			if height != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould append the first block at height 0: %d", failed, height)
			}
			t.Logf("\t%s\tTest 0:\tShould append the first block at height 0.", success)

			// The second block claims a bogus predecessor. The chain owns
			// linkage and must rebind it to the current tip on append.
			b2 := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 2)}, []byte{9, 9, 9, 9})
			height = chain.Append(b2)
			if height != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould append the second block at height 1: %d", failed, height)
			}
			t.Logf("\t%s\tTest 0:\tShould append the second block at height 1.", success)

			first, _ := chain.Get(0)
			last, exists := chain.Last()
			if !exists || !last.PrevBlockID.Equal(first.ID) {
				t.Fatalf("\t%s\tTest 0:\tShould link the second block to the first.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link the second block to the first.", success)

			if !last.ID.Equal(database.BlockID(last.Transactions, last.PrevBlockID)) {
				t.Fatalf("\t%s\tTest 0:\tShould re-derive the block id on relink.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould re-derive the block id on relink.", success)
		}
	}
}
