package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version: version,
			Commit:  commit,
			Date:    date,
			Go:      runtime.Version(),
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, info)
		}
		fmt.Printf("rounds %s (commit %s, built %s, %s)\n", info.Version, info.Commit, info.Date, info.Go)
		return nil
	},
}
