package main

import (
	"os"

	"github.com/rustyeddy/banca/cmd/banca/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
