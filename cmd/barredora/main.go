// Package main is the entry point for the barredora CLI.
package main

import (
	"os"

	"github.com/JonMunkholm/barredora/cmd/barredora/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
