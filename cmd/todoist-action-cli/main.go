package main

import (
	"os"

	"github.com/amirbrooks/todoist-action-cli/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
