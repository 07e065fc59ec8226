package main

import (
	"os"

	"github.com/safestay/safestay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
