package storage_test

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/database/storage"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func testBlocks() []database.Block {
	b1 := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 1)}, nil)
	b2 := database.NewBlock([]database.Tx{database.NewTx([]byte{0, 1, 2, 3, 4}, 2)}, b1.ID)

	return []database.Block{b1, b2}
}

// =============================================================================

func Test_Disk(t *testing.T) {
	t.Log("Given the need to validate blocks survive a trip through disk storage.")
	{
		t.Logf("\tTest 0:\tWhen writing and reading back two blocks.")
		{
			strg, err := storage.NewDisk(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open the storage: %v", failed, err)
			}
			defer strg.Close()

			blocks := testBlocks()
			for i, block := range blocks {
				if err := strg.Write(uint64(i), block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, i, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write the blocks.", success)

			for i, block := range blocks {
				got, err := strg.GetBlock(uint64(i))
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to read block %d: %v", failed, i, err)
				}
				if !got.Equals(block) {
					t.Fatalf("\t%s\tTest 0:\tShould get back an equal block %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould get back equal blocks.", success)

			var count int
			iter := strg.ForEach()
			for {
				block, err := iter.Next()
				if iter.Done() {
					break
				}
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to iterate the blocks: %v", failed, err)
				}
				if !block.Equals(blocks[count]) {
					t.Fatalf("\t%s\tTest 0:\tShould iterate the blocks in height order.", failed)
				}
				count++
			}
			if count != len(blocks) {
				t.Fatalf("\t%s\tTest 0:\tShould iterate every block: %d", failed, count)
			}
			t.Logf("\t%s\tTest 0:\tShould iterate every block in height order.", success)
		}

		t.Logf("\tTest 1:\tWhen the file on disk is tampered with.")
		{
			dir := t.TempDir()
			strg, err := storage.NewDisk(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to open the storage: %v", failed, err)
			}
			defer strg.Close()

			block := testBlocks()[0]
			if err := strg.Write(0, block); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write the block: %v", failed, err)
			}

			name := path.Join(dir, "0.blk")
			data, err := os.ReadFile(name)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the raw file: %v", failed, err)
			}

			// Flip a byte inside the stored id.
			data[8] ^= 0xFF
			if err := os.WriteFile(name, data, 0600); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write the raw file: %v", failed, err)
			}

			if _, err := strg.GetBlock(0); !errors.Is(err, database.ErrCorruptBlock) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the corrupted block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the corrupted block.", success)
		}

		t.Logf("\tTest 2:\tWhen resetting the storage.")
		{
			strg, err := storage.NewDisk(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to open the storage: %v", failed, err)
			}
			defer strg.Close()

			if err := strg.Write(0, testBlocks()[0]); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to write the block: %v", failed, err)
			}

			if err := strg.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to reset the storage: %v", failed, err)
			}

			if _, err := strg.GetBlock(0); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould not find blocks after a reset.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not find blocks after a reset.", success)
		}
	}
}

func Test_Memory(t *testing.T) {
	t.Log("Given the need to validate the in-memory storage behaves like disk.")
	{
		t.Logf("\tTest 0:\tWhen writing blocks out of order.")
		{
			strg := storage.NewMemory()

			blocks := testBlocks()
			if err := strg.Write(5, blocks[0]); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a write at the wrong height.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a write at the wrong height.", success)

			for i, block := range blocks {
				if err := strg.Write(uint64(i), block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, i, err)
				}
			}

			var count int
			iter := strg.ForEach()
			for {
				block, err := iter.Next()
				if iter.Done() {
					break
				}
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to iterate the blocks: %v", failed, err)
				}
				if !block.Equals(blocks[count]) {
					t.Fatalf("\t%s\tTest 0:\tShould iterate the blocks in height order.", failed)
				}
				count++
			}
			if count != len(blocks) {
				t.Fatalf("\t%s\tTest 0:\tShould iterate every block: %d", failed, count)
			}
			t.Logf("\t%s\tTest 0:\tShould iterate every block in height order.", success)
		}
	}
}
