package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/registry"
)

var cleanCmd = &cobra.Command{
	Use:     "clean",
	GroupID: GroupMaint,
	Short:   "Remove skillshub-created links from agent directories",
	Long: `Remove every symlink skillshub created in agent skills directories.
Real directories and links pointing elsewhere are left alone.

With --remove-skills the content store and all installed-skill records are
removed too (external skill directories are never touched). Records stay
intact otherwise, so 'skillshub link' restores the links.

EXAMPLES:
Preview what would be removed:
  skillshub clean --dry-run

Remove links and all installed content:
  skillshub clean --remove-skills`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		removeSkills, _ := cmd.Flags().GetBool("remove-skills")

		if dryRun {
			infof("%s", color.YellowString("DRY RUN - no changes will be made"))
			db, err := mustStore().Load()
			if err != nil {
				fatalf("%v", err)
			}
			for _, name := range db.SkillNames() {
				infof("  would unlink %s from all agents", name)
				if removeSkills {
					infof("  would remove %s and its store content", name)
				}
			}
			return
		}

		removed, err := mustReconciler().Clean()
		if err != nil {
			fatalf("%v", err)
		}
		for _, l := range removed {
			verbosef("removed %s", paths.DisplayPath(l.Path))
		}
		infof("%s removed %d link(s)", successMark(), len(removed))

		if !removeSkills {
			return
		}

		store := mustStore()
		err = store.Mutate(func(db *registry.Database) error {
			db.Installed = map[string]*registry.Skill{}
			return nil
		})
		if err != nil {
			fatalf("%v", err)
		}
		storeDir, err := paths.StoreDir()
		if err != nil {
			fatalf("%v", err)
		}
		if err := os.RemoveAll(storeDir); err != nil {
			fatalf("remove content store: %v", err)
		}
		infof("%s removed content store %s", successMark(), paths.DisplayPath(storeDir))
	},
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "Show what would be removed without removing it")
	cleanCmd.Flags().Bool("remove-skills", false, "Also remove installed skills and the content store")
	rootCmd.AddCommand(cleanCmd)
}
