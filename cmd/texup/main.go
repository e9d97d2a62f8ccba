package main

import (
	"os"

	"github.com/mreinstein/texture2d/cmd/texup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
