package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/agent"
	"github.com/EYH0602/skillshub/internal/paths"
)

var agentsCmd = &cobra.Command{
	Use:     "agents",
	GroupID: GroupSources,
	Short:   "Show detected coding agents and their skills directories",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			fatalf("%v", err)
		}

		detected := map[string]bool{}
		for _, a := range agent.Detect(home) {
			detected[a.Name] = true
		}

		type row struct {
			Name     string `json:"name"`
			Detected bool   `json:"detected"`
			Dir      string `json:"skills_dir"`
			Links    int    `json:"links"`
		}
		var rows []row
		for _, a := range agent.Known {
			r := row{Name: a.Name, Detected: detected[a.Name], Dir: a.SkillsDir(home)}
			r.Links = countLinks(r.Dir)
			rows = append(rows, r)
		}

		if jsonOutput {
			printJSON(rows)
			return
		}

		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			mark := emptyMark()
			links := "-"
			if r.Detected {
				mark = successMark()
				links = strconv.Itoa(r.Links)
			}
			out = append(out, []string{mark, r.Name, paths.DisplayPath(r.Dir), links})
		}
		renderTable([]string{"", "AGENT", "SKILLS DIR", "LINKS"}, out)
	},
}

func countLinks(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
