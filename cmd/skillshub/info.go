package main

import (
	"fmt"
	"os"
	"strings"

	"charm.land/glamour/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/skill"
)

var infoCmd = &cobra.Command{
	Use:     "info <name>",
	GroupID: GroupSkills,
	Short:   "Show an installed skill's manifest and instructions",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		db, err := mustStore().Load()
		if err != nil {
			fatalf("%v", err)
		}

		var dir string
		switch {
		case db.Installed[name] != nil:
			rec := db.Installed[name]
			storeDir, err := paths.StoreDir()
			if err != nil {
				fatalf("%v", err)
			}
			dir = paths.StorePath(storeDir, rec.Tap, rec.Path)
		case db.External[name] != nil:
			dir = db.External[name].SourcePath
		default:
			fatalf("skill not found: %s", name)
		}

		m, err := skill.ReadDir(dir)
		if err != nil {
			fatalf("read manifest: %v", err)
		}

		if jsonOutput {
			printJSON(map[string]interface{}{
				"name":          name,
				"description":   m.Description,
				"allowed_tools": m.AllowedTools,
				"path":          dir,
			})
			return
		}

		infof("%s", name)
		if m.Description != "" {
			infof("  %s", m.Description)
		}
		if len(m.AllowedTools) > 0 {
			infof("  tools: %s", strings.Join(m.AllowedTools, ", "))
		}
		infof("  path:  %s", paths.DisplayPath(dir))

		if body := strings.TrimSpace(m.Body); body != "" {
			fmt.Println()
			fmt.Println(renderMarkdown(body))
		}
	},
}

// renderMarkdown pretty-prints markdown for TTY output, falling back to the
// raw text when rendering fails or stdout is not a terminal.
func renderMarkdown(body string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return body
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
