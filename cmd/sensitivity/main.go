// Command reviewflow-sensitivity builds the search-sensitivity tables
// from a tabular homology search result.
package main

import (
	"os"

	"github.com/genomewalker/reviewflow/internal/sensitivityapp"
)

func main() {
	os.Exit(sensitivityapp.Run(os.Args[1:], os.Stdout, os.Stderr))
}
