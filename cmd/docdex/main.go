package main

import (
	"fmt"
	"os"

	"github.com/docsmith-labs/docdex/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "docdex: %v\n", err)
		os.Exit(1)
	}
}
