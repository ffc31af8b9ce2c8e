package main

import (
	"os"

	"github.com/winmanuel/eduhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
