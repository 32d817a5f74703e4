package main

import (
	"os"

	"github.com/hatchkit/hatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
