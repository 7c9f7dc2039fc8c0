package main

import (
	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/installer"
)

var installCmd = &cobra.Command{
	Use:     "install <name>[@ref] [<name>[@ref]...]",
	GroupID: GroupSkills,
	Short:   "Install skills from your taps",
	Long: `Install one or more skills by name.

Names are looked up in the cached bundle lists of your taps (run
'skillshub tap update' to refresh them). An explicit @ref pins the skill
to that branch, tag, or commit; pinned skills are skipped by 'update'.

EXAMPLES:
  skillshub install code-review
  skillshub install code-review@v2 refactor`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ins := mustInstaller()
		db, err := ins.Store.Load()
		if err != nil {
			fatalf("%v", err)
		}

		failed := 0
		for _, arg := range args {
			name, ref := splitNameRef(arg)
			tap, bundle, err := installer.FindBundle(db, name)
			if err != nil {
				warnf("%v", err)
				failed++
				continue
			}

			rev, err := ins.Install(cmd.Context(), installer.Request{
				Tap:  tap,
				Path: bundle.Path,
				Name: name,
				Ref:  ref,
				Pin:  ref != "",
			})
			if err != nil {
				warnf("install %s: %s", name, describeErr(err))
				failed++
				continue
			}
			infof("%s installed %s@%s from %s", successMark(), name, rev, tap)
		}

		reconcileAndReport()
		if failed > 0 {
			fatalf("%d of %d install(s) failed", failed, len(args))
		}
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
