package main

import (
	"os"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
