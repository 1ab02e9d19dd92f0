package main

import (
	"os"

	"github.com/growthroom/growthbrief/cmd/grs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
