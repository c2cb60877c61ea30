package main

import (
	"fmt"
	"os"

	"github.com/darkcodi/ffcv/internal/cli"
)

var (
	rootCommand = cli.NewRootCommand
	osExit      = os.Exit
)

func main() {
	cmd := rootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}
