package main

import (
	"os"

	"github.com/bank2ynab/bank2ynab/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
