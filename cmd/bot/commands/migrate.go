package commands

import (
	"github.com/spf13/cobra"

	"github.com/Spok95/pocket-bot/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := migrations.Up(cfg.Postgres.DSN); err != nil {
					log.Error("migrations failed", "err", err)
					return err
				}
				log.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Status(cfg.Postgres.DSN)
			},
		},
	)
	return cmd
}
