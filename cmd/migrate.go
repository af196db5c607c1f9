package cmd

import (
	"fmt"
	"time"

	"movie-review/internal/data/migrations"
	"movie-review/pkg/database"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	versionFlag = "version"
	timeoutFlag = "timeout"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		Long: `The migrate command moves the postgres schema to the requested version.
Without --version every pending migration is applied.`,
		Args: cobra.NoArgs,
		RunE: runMigration,
	}

	flags := cmd.Flags()
	flags.Int64(versionFlag, 0, "the version to migrate to (if omitted the latest schema will be used)")
	flags.Duration(timeoutFlag, time.Minute, "how long to keep retrying the database connection")
	mustBind("MIGRATE_VERSION", flags.Lookup(versionFlag))
	mustBind("MIGRATE_TIMEOUT", flags.Lookup(timeoutFlag))

	return cmd
}

func runMigration(cmd *cobra.Command, _ []string) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if config.Datastore.Engine == "memory" {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations to run for `memory` datastore")
		return nil
	}

	opts := database.MigrateOptions{
		TargetVersion: viper.GetInt64("MIGRATE_VERSION"),
		Timeout:       viper.GetDuration("MIGRATE_TIMEOUT"),
	}
	if opts.TargetVersion < 0 {
		return fmt.Errorf("--%s must not be negative", versionFlag)
	}

	logger.Info("Running migrations", zap.Int64("target_version", opts.TargetVersion))
	if err := database.Migrate(cmd.Context(), database.DSN(config.Database), migrations.FS(), opts, logger); err != nil {
		return err
	}

	logger.Info("Migrations complete")
	return nil
}
