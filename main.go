package main

import (
	"os"

	"github.com/hejvi/hejvi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
