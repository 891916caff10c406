package commands

import (
	"fmt"

	"github.com/anovaledger/anova/foundation/ledger/database/storage"
)

// Reset clears the block storage so the node starts from an empty chain.
func Reset(strg *storage.Disk) error {
	if err := strg.Reset(); err != nil {
		return err
	}

	fmt.Println("block storage cleared")

	return nil
}
