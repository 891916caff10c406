package main

import "github.com/anovaledger/anova/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
