package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fstopgen/fstop/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics before returning an
		// ExitError. Anything else is a usage or flag error that cobra
		// was told to keep quiet about.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
