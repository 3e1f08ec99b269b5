// Command networth values a plain-text ledger month by month and writes the
// net worth report.
package main

import (
	"os"

	"github.com/plenert-macdonald/networth/networth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
