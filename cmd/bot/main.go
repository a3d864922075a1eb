package main

import (
	"os"

	"github.com/Spok95/pocket-bot/cmd/bot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
