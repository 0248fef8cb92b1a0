package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overwritten by SetVersion before Execute runs.
var version = "dev"

// SetVersion records the build version injected by main.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the canistertools version",
	// Override the root PersistentPreRun: printing the version must not
	// require a valid config file.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("canistertools %s\n", version)
	},
}
