package main

import (
	"os"

	"github.com/cwbudde/go-mlab/cmd/mlab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
