package main

import (
	"github.com/spf13/cobra"

	"github.com/EYH0602/skillshub/internal/registry"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	GroupID: GroupMaint,
	Short:   "Upgrade the database to the current schema",
	Long: `Upgrade a pre-versioned db.json to the current document schema.

Migration also runs automatically before other commands; this command
exists to run it explicitly and report the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()
		migrated, err := store.Migrate()
		if err != nil {
			fatalf("%v", err)
		}
		if migrated {
			infof("%s migrated database to schema version %d", successMark(), registry.CurrentSchemaVersion)
		} else {
			infof("%s database already at schema version %d", successMark(), registry.CurrentSchemaVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
