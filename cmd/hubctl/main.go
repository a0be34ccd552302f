package main

import (
	"os"

	"github.com/hubkit/hubctl/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
