// Command animedom-cli runs maintenance tasks against the catalog database:
// migrations, account provisioning and session cleanup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/animedom/animedom/internal/core"
	"github.com/animedom/animedom/internal/store"
)

var version = "dev"

var (
	// app is opened before every command and closed after it.
	app *core.App
	st  *store.Store

	// openApp is replaced in tests.
	openApp = func() (*core.App, error) { return core.New(version) }
)

var rootCmd = &cobra.Command{
	Use:           "animedom-cli",
	Short:         "Maintenance commands for the Anime Dom catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		app = a
		st = store.New(a.DB)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userDeleteCmd)
	roleCmd.AddCommand(roleGrantCmd)
	roleCmd.AddCommand(roleRevokeCmd)
	sessionsCmd.AddCommand(sessionsPurgeCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
