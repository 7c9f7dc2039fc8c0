package main

import (
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:     "link",
	GroupID: GroupSkills,
	Short:   "Reconcile agent skills directories with the database",
	Long: `Converge every detected agent's skills directory: create missing
symlinks for installed and external skills, remove stale tool-created
links, and adopt unmanaged skill directories as external skills.

Safe to run any time; a second run right after changes nothing.`,
	Aliases: []string{"sync", "reconcile"},
	Run: func(cmd *cobra.Command, args []string) {
		res, err := mustReconciler().Reconcile()
		if err != nil {
			fatalf("%v", err)
		}
		if jsonOutput {
			printJSON(res)
			return
		}
		reportReconcile(res)
		if !res.Changed() && len(res.Conflicts) == 0 {
			infof("%s all agent directories in sync", successMark())
		}
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
