package main

import (
	"os"

	"github.com/nlook/sparkcoach/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
