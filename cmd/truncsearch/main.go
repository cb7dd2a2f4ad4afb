// truncsearch - Side-product search for synthetic peptides
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/TruncSearch/cmd/truncsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
