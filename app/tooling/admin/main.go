// This program performs administrative tasks for the ledger node.
package main

import (
	"fmt"
	"os"

	"github.com/anovaledger/anova/app/tooling/admin/commands"
	"github.com/anovaledger/anova/foundation/ledger/database/storage"
	"github.com/anovaledger/anova/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	strg, err := storage.NewDisk("zblock/blocks/")
	if err != nil {
		return err
	}
	defer strg.Close()

	return processCommands(os.Args, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, strg *storage.Disk) error {
	if len(args) < 2 {
		return fmt.Errorf("must specify a command: blocks, reset")
	}

	switch args[1] {
	case "blocks":
		if err := commands.Blocks(strg); err != nil {
			return fmt.Errorf("dumping blocks: %w", err)
		}
	case "reset":
		if err := commands.Reset(strg); err != nil {
			return fmt.Errorf("resetting storage: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
