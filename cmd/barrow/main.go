package main

import (
	"os"

	"barrow/cmd/barrow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
