package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			printJSON(map[string]string{
				"version": Version,
				"build":   Build,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			})
			return
		}
		fmt.Printf("skillshub version %s (%s)\n", Version, Build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
