// Command drift-tui runs the demo app and inspects frame recordings.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/drift-tui/cmd/drift-tui/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
