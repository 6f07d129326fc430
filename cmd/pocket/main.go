package main

import (
	"os"

	"pocketrelay/cmd/pocket/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
