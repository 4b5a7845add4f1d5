// Package main is the entry point for the ledgerctl CLI.
package main

import (
	"os"

	"github.com/SscSPs/pos_ledger/cmd/ledgerctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
