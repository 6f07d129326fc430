package main

import (
	"os"

	"pocketrelay/cmd/devnode/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
