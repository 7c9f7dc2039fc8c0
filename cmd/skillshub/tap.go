package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/EYH0602/skillshub/internal/config"
	"github.com/EYH0602/skillshub/internal/discovery"
	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/installer"
	"github.com/EYH0602/skillshub/internal/registry"
)

var tapCmd = &cobra.Command{
	Use:     "tap",
	GroupID: GroupSources,
	Short:   "Manage skill sources (taps)",
	Long: `A tap is a GitHub repository containing skills. Tapping a repository
discovers its skills and caches the list so install and search work offline.`,
}

var tapAddCmd = &cobra.Command{
	Use:   "add <owner/repo | url>",
	Short: "Add a tap and discover its skills",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := github.ParseSource(args[0])
		if err != nil {
			fatalf("%v", err)
		}

		count, err := refreshTap(cmd.Context(), mustStore(), src.String())
		if err != nil {
			fatalf("tap %s: %s", src, describeErr(err))
		}
		infof("%s tapped %s (%d skill(s) discovered)", successMark(), src, count)
	},
}

var tapRemoveCmd = &cobra.Command{
	Use:   "remove <owner/repo>",
	Short: "Remove a tap",
	Long: `Remove a tap from the database. Refused while installed skills still
reference it; pass --uninstall to remove those skills too.`,
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		cascade, _ := cmd.Flags().GetBool("uninstall")
		tapName := args[0]

		ins := mustInstaller()
		db, err := ins.Store.Load()
		if err != nil {
			fatalf("%v", err)
		}
		if _, ok := db.Taps[tapName]; !ok {
			fatalf("%v: %s", registry.ErrTapNotFound, tapName)
		}

		dependents := db.SkillsForTap(tapName)
		if len(dependents) > 0 {
			if !cascade {
				fatalf("%v: %s (%d skill(s): %v; pass --uninstall to remove them)",
					registry.ErrTapInUse, tapName, len(dependents), dependents)
			}
			for _, name := range dependents {
				if err := ins.Uninstall(name); err != nil {
					fatalf("uninstall %s: %v", name, err)
				}
				infof("%s uninstalled %s", successMark(), name)
			}
		}

		err = ins.Store.Mutate(func(db *registry.Database) error {
			delete(db.Taps, tapName)
			return nil
		})
		if err != nil {
			fatalf("%v", err)
		}
		infof("%s removed tap %s", successMark(), tapName)

		reconcileAndReport()
	},
}

var tapListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List taps",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		db, err := mustStore().Load()
		if err != nil {
			fatalf("%v", err)
		}

		if jsonOutput {
			printJSON(db.Taps)
			return
		}

		rows := make([][]string, 0, len(db.Taps))
		for _, name := range db.TapNames() {
			t := db.Taps[name]
			mark := ""
			if t.IsDefault {
				mark = "default"
			}
			rows = append(rows, []string{
				name,
				strconv.Itoa(len(t.Skills)),
				t.UpdatedAt.Format("2006-01-02"),
				mark,
			})
		}
		renderTable([]string{"TAP", "SKILLS", "UPDATED", ""}, rows)
	},
}

var tapUpdateCmd = &cobra.Command{
	Use:   "update [<owner/repo>...]",
	Short: "Refresh the cached skill lists of taps",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()
		db, err := store.Load()
		if err != nil {
			fatalf("%v", err)
		}

		taps := args
		if len(taps) == 0 {
			taps = db.TapNames()
		}

		var mu sync.Mutex
		failed := 0
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(config.Concurrency())
		for _, tapName := range taps {
			g.Go(func() error {
				count, err := refreshTap(ctx, store, tapName)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					warnf("tap %s: %s", tapName, describeErr(err))
					failed++
					return nil
				}
				infof("%s %s: %d skill(s)", successMark(), tapName, count)
				return nil
			})
		}
		_ = g.Wait()
		if failed > 0 {
			fatalf("%d of %d tap(s) failed to refresh", failed, len(taps))
		}
	},
}

var tapInstallAllCmd = &cobra.Command{
	Use:   "install-all <owner/repo>",
	Short: "Install every skill a tap provides",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tapName := args[0]
		ins := mustInstaller()
		db, err := ins.Store.Load()
		if err != nil {
			fatalf("%v", err)
		}
		tap, ok := db.Taps[tapName]
		if !ok {
			fatalf("%v: %s (run 'skillshub tap add %s' first)", registry.ErrTapNotFound, tapName, tapName)
		}
		if len(tap.Skills) == 0 {
			infof("%s tap %s has no discovered skills (run 'skillshub tap update')", emptyMark(), tapName)
			return
		}

		var mu sync.Mutex
		failed := 0
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(config.Concurrency())
		for name, bundle := range tap.Skills {
			g.Go(func() error {
				rev, err := ins.Install(ctx, installer.Request{
					Tap:  tapName,
					Path: bundle.Path,
					Name: name,
				})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					warnf("install %s: %s", name, describeErr(err))
					failed++
					return nil
				}
				infof("%s installed %s@%s", successMark(), name, rev)
				return nil
			})
		}
		_ = g.Wait()

		reconcileAndReport()
		if failed > 0 {
			fatalf("%d of %d install(s) failed", failed, len(tap.Skills))
		}
	},
}

// refreshTap runs discovery against the tap's default branch and caches the
// result on the tap record, creating the record if needed.
func refreshTap(ctx context.Context, store *registry.Store, tapName string) (int, error) {
	src, err := github.ParseSource(tapName)
	if err != nil {
		return 0, err
	}

	client := newClient()
	branch, err := client.DefaultBranch(ctx, src.Owner, src.Repo)
	if err != nil {
		return 0, err
	}
	entries, err := client.ListTree(ctx, src.Owner, src.Repo, branch)
	if err != nil {
		return 0, err
	}
	candidates := discovery.Discover(entries, src.Repo)

	skills := make(map[string]*registry.Bundle, len(candidates))
	for _, c := range candidates {
		skills[c.Name] = &registry.Bundle{Path: c.Path}
	}

	err = store.Mutate(func(db *registry.Database) error {
		tap := db.Taps[src.String()]
		if tap == nil {
			tap = &registry.Tap{URL: src.RepoURL()}
			db.Taps[src.String()] = tap
		}
		tap.DefaultRef = branch
		tap.Skills = skills
		tap.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record tap: %w", err)
	}
	return len(candidates), nil
}

func init() {
	tapRemoveCmd.Flags().Bool("uninstall", false, "Also uninstall skills installed from this tap")
	tapCmd.AddCommand(tapAddCmd, tapRemoveCmd, tapListCmd, tapUpdateCmd, tapInstallAllCmd)
	rootCmd.AddCommand(tapCmd)
}
