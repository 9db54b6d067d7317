package main

import (
	"os"

	"github.com/Lumos-Labs-HQ/objseed/cmd"
	"github.com/fatih/color"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}
