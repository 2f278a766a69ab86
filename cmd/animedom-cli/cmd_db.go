package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd brings the schema up to date. Opening the app already applies
// pending migrations, so there is nothing left to do but report.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage login sessions",
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every expired session",
	Args:  cobra.NoArgs,
	RunE:  runSessionsPurge,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Database is up to date (%s).\n", app.Config.Database.Driver)
	return nil
}

func runSessionsPurge(cmd *cobra.Command, args []string) error {
	n, err := st.PurgeExpiredSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions.\n", n)
	return nil
}
