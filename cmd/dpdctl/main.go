// Command dpdctl queries the Health Canada Drug Product Database API
// from the command line, one subcommand per resource. Results print as
// JSON on stdout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
