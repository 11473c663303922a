package main

import (
	"os"

	"github.com/trapx25/inkwell/cmd/inkwell/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
