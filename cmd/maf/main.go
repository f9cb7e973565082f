package main

import (
	"os"

	"github.com/msto63/mAF/cmd/maf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
