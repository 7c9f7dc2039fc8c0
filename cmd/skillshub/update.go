package main

import (
	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/config"
	"github.com/EYH0602/skillshub/internal/installer"
)

var updateCmd = &cobra.Command{
	Use:     "update [<name>...]",
	GroupID: GroupSkills,
	Short:   "Update installed skills to their tap's latest revision",
	Long: `Re-resolve each skill against its tap's default branch and reinstall
the ones whose revision moved. With no arguments every installed skill is
checked. Skills installed with an explicit @ref stay pinned and are skipped.

Fetches run in parallel (config key: concurrency).`,
	Run: func(cmd *cobra.Command, args []string) {
		ins := mustInstaller()

		var names []string
		if len(args) > 0 {
			names = args
		}
		results, err := ins.Update(cmd.Context(), names, config.Concurrency())
		if err != nil {
			fatalf("%v", err)
		}

		if jsonOutput {
			printJSON(results)
		}

		failed := 0
		for _, r := range results {
			switch r.Status {
			case installer.StatusUpdated:
				infof("%s %s -> %s", successMark(), r.Name, r.Revision)
			case installer.StatusUpToDate:
				verbosef("%s already at %s", r.Name, r.Revision)
			case installer.StatusPinned:
				infof("%s %s pinned at %s, skipped", emptyMark(), r.Name, r.Revision)
			case installer.StatusFailed:
				warnf("update %s: %s", r.Name, describeErr(r.Err))
				failed++
			}
		}

		reconcileAndReport()
		if failed > 0 {
			fatalf("%d of %d update(s) failed", failed, len(results))
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
