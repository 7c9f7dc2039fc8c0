package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search [<query>]",
	GroupID: GroupSkills,
	Short:   "Search skills available in your taps",
	Long: `Search the cached bundle lists of all taps. With no query, every
available skill is listed. Run 'skillshub tap update' to refresh caches.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := ""
		if len(args) == 1 {
			query = strings.ToLower(args[0])
		}

		db, err := mustStore().Load()
		if err != nil {
			fatalf("%v", err)
		}

		type hit struct {
			Name      string `json:"name"`
			Tap       string `json:"tap"`
			Path      string `json:"path"`
			Installed bool   `json:"installed"`
		}
		var hits []hit
		for _, tapName := range db.TapNames() {
			for name, b := range db.Taps[tapName].Skills {
				if query != "" &&
					!strings.Contains(strings.ToLower(name), query) &&
					!strings.Contains(strings.ToLower(b.Description), query) {
					continue
				}
				_, installed := db.Installed[name]
				hits = append(hits, hit{Name: name, Tap: tapName, Path: b.Path, Installed: installed})
			}
		}
		sort.Slice(hits, func(i, j int) bool {
			if hits[i].Name != hits[j].Name {
				return hits[i].Name < hits[j].Name
			}
			return hits[i].Tap < hits[j].Tap
		})

		if jsonOutput {
			printJSON(hits)
			return
		}
		if len(hits) == 0 {
			infof("%s no skills match %q", emptyMark(), query)
			return
		}

		rows := make([][]string, 0, len(hits))
		for _, h := range hits {
			mark := ""
			if h.Installed {
				mark = successMark()
			}
			rows = append(rows, []string{mark, h.Name, h.Tap, h.Path})
		}
		renderTable([]string{"", "SKILL", "TAP", "PATH"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
