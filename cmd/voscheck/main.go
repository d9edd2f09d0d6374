// voscheck is the timing qualification tool for the VOS layer.
package main

import (
	"os"

	"github.com/tcnlab/vos/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
