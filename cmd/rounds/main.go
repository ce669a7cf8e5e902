// Command rounds is a terminal workout interval timer.
package main

import (
	"os"

	"github.com/opencode-ai/rounds/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
