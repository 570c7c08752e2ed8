package main

import (
	"os"

	// Embedded zone database for hosts without one
	_ "time/tzdata"

	"github.com/Attamusc/history-dates-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
