package main

import (
	"os"

	"github.com/tubescribe/tubescribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
