// Command formreplay replays scripted interactions against a form described in
// YAML and prints the resulting state as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
