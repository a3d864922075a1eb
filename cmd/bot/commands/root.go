package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Spok95/pocket-bot/internal/config"
	"github.com/Spok95/pocket-bot/internal/infra/logger"
)

var (
	configPath string

	cfg config.Config
	log *slog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "pocket-bot",
		Short:         "Telegram bot: trivia quiz, subscription tracker and GPS routes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
			log = logger.New(cfg.App.Env)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/example.yaml", "path to YAML config")

	root.AddCommand(runCmd(), migrateCmd())
	return root.Execute()
}
