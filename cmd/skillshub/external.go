package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/registry"
)

var externalCmd = &cobra.Command{
	Use:     "external",
	GroupID: GroupSources,
	Short:   "Manage skills created by agents themselves",
	Long: `External skills are real skill directories an agent (or you) created
inside an agent's skills directory. skillshub adopts them during reconcile
and mirrors them to the other agents, but never touches their content.`,
}

var externalListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List external skills",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		db, err := mustStore().Load()
		if err != nil {
			fatalf("%v", err)
		}

		if jsonOutput {
			printJSON(db.External)
			return
		}
		if len(db.External) == 0 {
			infof("%s no external skills", emptyMark())
			return
		}

		rows := make([][]string, 0, len(db.External))
		for _, name := range db.ExternalNames() {
			e := db.External[name]
			rows = append(rows, []string{name, e.SourceAgent, paths.DisplayPath(e.SourcePath)})
		}
		renderTable([]string{"SKILL", "SOURCE AGENT", "PATH"}, rows)
	},
}

var externalScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan agent directories for new external skills",
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
		if len(res.Adopted) == 0 {
			infof("%s no new external skills found", emptyMark())
		}
	},
}

var externalForgetCmd = &cobra.Command{
	Use:   "forget <name>",
	Short: "Forget an external skill",
	Long: `Drop the external skill's record. Its mirror links disappear on the
next reconcile; the original directory stays. The next scan will adopt it
again unless the directory is removed first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		var sourcePath string
		err := mustStore().Mutate(func(db *registry.Database) error {
			ext, ok := db.External[name]
			if !ok {
				return fmt.Errorf("no external skill named %s", name)
			}
			sourcePath = ext.SourcePath
			delete(db.External, name)
			return nil
		})
		if err != nil {
			fatalf("%v", err)
		}
		infof("%s forgot external skill %s (%s untouched)", successMark(), name, paths.DisplayPath(sourcePath))
	},
}

func init() {
	externalCmd.AddCommand(externalListCmd, externalScanCmd, externalForgetCmd)
	rootCmd.AddCommand(externalCmd)
}
