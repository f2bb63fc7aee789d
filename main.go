package main

import (
	"os"

	"github.com/skarahan/ferrysim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
