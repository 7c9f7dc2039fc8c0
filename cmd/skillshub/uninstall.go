package main

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <name> [<name>...]",
	GroupID: GroupSkills,
	Short:   "Uninstall skills",
	Long: `Remove skills from the content store and the database.

Symlinks in agent directories are cleaned up by the reconcile pass that
runs right after.`,
	Args:    cobra.MinimumNArgs(1),
	Aliases: []string{"remove", "rm"},
	Run: func(cmd *cobra.Command, args []string) {
		ins := mustInstaller()

		failed := 0
		for _, name := range args {
			if err := ins.Uninstall(name); err != nil {
				warnf("%v", err)
				failed++
				continue
			}
			infof("%s uninstalled %s", successMark(), name)
		}

		reconcileAndReport()
		if failed > 0 {
			fatalf("%d of %d uninstall(s) failed", failed, len(args))
		}
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
