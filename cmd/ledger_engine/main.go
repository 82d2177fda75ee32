package main

import (
	"os"

	"github.com/SscSPs/portfolio_ledger/cmd/ledger_engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
