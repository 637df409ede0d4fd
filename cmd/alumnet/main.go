package main

import (
	"os"

	"github.com/alumnet-dev/alumnet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
