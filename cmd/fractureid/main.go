package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	a := &app{}
	// PersistentPostRun is skipped when a command fails
	defer a.shutdown()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.Execute()
}
