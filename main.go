package main

import (
	"os"

	"github.com/thenoetrevino/etiquetas/cmd"
	"github.com/thenoetrevino/etiquetas/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
