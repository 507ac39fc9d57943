package main

import (
	"os"

	"github.com/sandrolain/goparsec/cmd/calc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
