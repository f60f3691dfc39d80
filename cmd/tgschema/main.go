// Command tgschema extracts a machine-readable schema from the Telegram Bot
// API reference.
package main

import (
	"os"

	"github.com/dgallion1/tgschema/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
