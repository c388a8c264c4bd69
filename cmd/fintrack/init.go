package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/spf13/cobra"
)

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the database",
		Long: `Create the database file if needed and bring its schema to the latest
version. Existing transactions and the balance are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			slog.Info("Initializing database", "database", a.cfg.DatabasePath)

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			schemaVersion, err := store.SchemaVersion(ctx)
			if err != nil {
				return common.NewUserError("Database error", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database ready at %s", store.Path())))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Schema version: %d", schemaVersion)))
			return nil
		},
	}
}
