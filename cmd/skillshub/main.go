// skillshub is a local package manager for agent skills: named directories
// of instructions installed from GitHub repositories and symlinked into the
// skills directories of AI coding agents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/config"
	"github.com/EYH0602/skillshub/internal/registry"
	"github.com/EYH0602/skillshub/internal/telemetry"
)

// Version is stamped by the release build.
var (
	Version = "0.3.0"
	Build   = "dev"
)

// Command group IDs for help output.
const (
	GroupSkills  = "skills"
	GroupSources = "sources"
	GroupMaint   = "maint"
)

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "skillshub",
	Short: "skillshub - Package manager for agent skills",
	Long: `A local package manager for agent skills.

Skills are directories containing a SKILL.md file. skillshub installs them
from GitHub repositories (taps) into a local content store and keeps every
detected coding agent's skills directory in sync via symlinks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("skillshub version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		autoMigrate(cmd)
	},
}

func init() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSkills, Title: "Managing Skills:"},
		&cobra.Group{ID: GroupSources, Title: "Taps & External Skills:"},
		&cobra.Group{ID: GroupMaint, Title: "Maintenance:"},
	)
}

// autoMigrate upgrades a pre-versioned database before any command that
// might read it. The explicit migrate command reports its own result.
func autoMigrate(cmd *cobra.Command) {
	switch cmd.Name() {
	case "migrate", "help", "completion", "version":
		return
	}
	store, err := registry.Open()
	if err != nil {
		return
	}
	migrated, err := store.Migrate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: database migration failed: %v\n", err)
		return
	}
	if migrated {
		verbosef("migrated database to schema version %d", registry.CurrentSchemaVersion)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := telemetry.Init(ctx, "skillshub", Version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry init failed: %v\n", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
