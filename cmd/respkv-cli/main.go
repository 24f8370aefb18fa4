package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/respkv/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		// The error reply was already printed.
		if !errors.Is(err, command.ErrReplyError) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
