package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EYH0602/skillshub/internal/config"
	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/installer"
	"github.com/EYH0602/skillshub/internal/reconciler"
	"github.com/EYH0602/skillshub/internal/registry"
)

func newClient() *github.Client {
	return github.NewClient(config.GitHubToken())
}

func mustStore() *registry.Store {
	store, err := registry.Open()
	if err != nil {
		fatalf("%v", err)
	}
	return store
}

func mustInstaller() *installer.Installer {
	ins, err := installer.New(newClient())
	if err != nil {
		fatalf("%v", err)
	}
	return ins
}

func mustReconciler() *reconciler.Reconciler {
	r, err := reconciler.New()
	if err != nil {
		fatalf("%v", err)
	}
	return r
}

// describeErr renders an error for status lines. Rate-limit failures get a
// hint about authenticating, which raises the limit from 60 to 5000/hour.
func describeErr(err error) string {
	if errors.Is(err, github.ErrRateLimited) {
		return fmt.Sprintf("%v (set GITHUB_TOKEN or github.token in config to raise the limit)", err)
	}
	return err.Error()
}

// splitNameRef splits "name@ref" into its parts; ref is "" without an @.
func splitNameRef(arg string) (name, ref string) {
	if i := strings.LastIndex(arg, "@"); i > 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}

// reconcileAndReport converges agent directories and prints what changed.
// Conflicts are warnings; reconciliation itself failing is fatal.
func reconcileAndReport() {
	res, err := mustReconciler().Reconcile()
	if err != nil {
		fatalf("reconcile links: %v", err)
	}
	reportReconcile(res)
}

func reportReconcile(res *reconciler.Result) {
	for _, name := range res.Adopted {
		infof("%s adopted external skill %s", successMark(), name)
	}
	for _, name := range res.Forgotten {
		verbosef("forgot external skill %s (source removed)", name)
	}
	for _, l := range res.Created {
		verbosef("linked %s for %s", l.Name, l.Agent)
	}
	for _, l := range res.Removed {
		verbosef("removed link %s for %s", l.Name, l.Agent)
	}
	for _, c := range res.Conflicts {
		warnf("%s", c)
	}
	if len(res.Created) > 0 || len(res.Removed) > 0 {
		infof("%s links: %d created, %d removed across %d agent(s)",
			successMark(), len(res.Created), len(res.Removed), len(res.Agents))
	}
}
