// Command cartctl inspects and edits a persisted DrinkSip cart from the
// terminal, using the same storage the storefront uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
