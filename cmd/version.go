package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/compat"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "seekjob", version)
		fmt.Fprintln(cmd.OutOrStdout(), "supported API versions: >=", compat.MinServerVersion)
	},
}
