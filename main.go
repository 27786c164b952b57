package main

import (
	"os"

	"github.com/syncbuild/syncbuild/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
