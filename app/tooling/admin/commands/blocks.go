// Package commands contains the functionality for the admin commands.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/database/storage"
)

// Blocks walks the block storage from height 0 and prints every block.
func Blocks(strg *storage.Disk) error {
	var height uint64

	iter := strg.ForEach()
	for {
		block, err := iter.Next()
		if iter.Done() {
			break
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(block, "", "  ")
		if err != nil {
			return err
		}

		fmt.Printf("height %d:\n%s\n", height, data)
		height++
	}

	fmt.Printf("%d blocks\n", height)

	return nil
}
