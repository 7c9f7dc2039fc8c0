package main

import (
	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupSkills,
	Short:   "List installed and external skills",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		db, err := mustStore().Load()
		if err != nil {
			fatalf("%v", err)
		}

		if jsonOutput {
			printJSON(map[string]interface{}{
				"installed": db.Installed,
				"external":  db.External,
			})
			return
		}

		if len(db.Installed) == 0 && len(db.External) == 0 {
			infof("%s no skills installed (try 'skillshub search' or 'skillshub tap add')", emptyMark())
			return
		}

		if len(db.Installed) > 0 {
			rows := make([][]string, 0, len(db.Installed))
			for _, name := range db.SkillNames() {
				s := db.Installed[name]
				rows = append(rows, []string{name, s.Tap, revisionLabel(s), s.InstalledAt.Format("2006-01-02")})
			}
			renderTable([]string{"SKILL", "TAP", "REVISION", "INSTALLED"}, rows)
		}

		if len(db.External) > 0 {
			rows := make([][]string, 0, len(db.External))
			for _, name := range db.ExternalNames() {
				e := db.External[name]
				rows = append(rows, []string{name, e.SourceAgent, e.DiscoveredAt.Format("2006-01-02")})
			}
			renderTable([]string{"EXTERNAL SKILL", "SOURCE AGENT", "DISCOVERED"}, rows)
		}
	},
}

func revisionLabel(s *registry.Skill) string {
	if s.Pinned {
		return s.Revision + " (pinned)"
	}
	return s.Revision
}

func init() {
	rootCmd.AddCommand(listCmd)
}
