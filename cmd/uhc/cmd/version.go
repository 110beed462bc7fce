package cmd

import (
	"fmt"

	"uhc/internal/version"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of uhc.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		if IsVerbose() {
			fmt.Println(info.Full())
			return
		}
		fmt.Printf("uhc version %s\n", info.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
