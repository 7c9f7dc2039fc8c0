package main

import (
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/installer"
	"github.com/EYH0602/skillshub/internal/registry"
)

var addCmd = &cobra.Command{
	Use:     "add <github-url>",
	GroupID: GroupSkills,
	Short:   "Install a skill directly from a GitHub URL",
	Long: `Install a single skill from a repository URL without tapping it first.

The URL may point at a repository root or at a directory inside it:

  skillshub add acme/one-skill
  skillshub add https://github.com/acme/skills/tree/main/skills/code-review

The repository is recorded as a tap so 'update' can track the skill.
A /tree/<ref>/ URL pins the skill to that ref.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := github.ParseSource(args[0])
		if err != nil {
			fatalf("%v", err)
		}

		name := src.Repo
		if src.Path != "" {
			name = path.Base(src.Path)
		}

		ins := mustInstaller()

		// Record the source as a tap so the skill participates in update.
		err = ins.Store.Mutate(func(db *registry.Database) error {
			if _, ok := db.Taps[src.String()]; !ok {
				db.Taps[src.String()] = &registry.Tap{
					URL:       src.RepoURL(),
					UpdatedAt: time.Now().UTC(),
				}
			}
			return nil
		})
		if err != nil {
			fatalf("%v", err)
		}

		rev, err := ins.Install(cmd.Context(), installer.Request{
			Tap:  src.String(),
			Path: src.Path,
			Name: name,
			Ref:  src.Ref,
			Pin:  src.Ref != "",
		})
		if err != nil {
			fatalf("install %s: %s", name, describeErr(err))
		}
		infof("%s installed %s@%s from %s", successMark(), name, rev, src)

		reconcileAndReport()
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
