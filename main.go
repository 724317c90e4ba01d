package main

import (
	"os"

	"github.com/theapemachine/contexthub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
