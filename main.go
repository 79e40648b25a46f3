// Package main is the entrypoint for the warngate CLI.
// It delegates all command handling to the cmd package.
package main

import (
	"fmt"
	"os"

	"github.com/warngate/warngate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if cmd.IsArgError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
