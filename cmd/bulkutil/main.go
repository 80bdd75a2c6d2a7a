package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cleared-dev/bulkutil/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, commands.ErrValidationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
