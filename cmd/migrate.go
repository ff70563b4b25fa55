package cmd

import (
	"fmt"

	"movie-comments/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back database migrations",
	Long:      `Applies every pending migration (up, the default) or rolls back the latest one (down).`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{database.MigrateUp, database.MigrateDown},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := database.MigrateUp
	if len(args) == 1 {
		direction = args[0]
	}

	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := database.RunMigrations(config.Database.DSN(), direction, logger); err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	return nil
}
