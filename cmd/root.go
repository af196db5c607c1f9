// Package cmd holds the movie-review command line: serve, migrate and admin.
package cmd

import (
	"context"
	"fmt"
	"os"

	"movie-review/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	datastoreEngineFlag = "datastore-engine"
	debugFlag           = "debug"
)

// NewRootCommand builds the command tree. Flags override the matching
// environment variables, which override .env.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "movie-review",
		Short:         "Movie catalog and review API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(datastoreEngineFlag, "", "storage engine: postgres or memory (env DATASTORE_ENGINE)")
	flags.Bool(debugFlag, false, "development logging (env DEBUG)")
	mustBind("DATASTORE_ENGINE", flags.Lookup(datastoreEngineFlag))
	mustBind("DEBUG", flags.Lookup(debugFlag))

	root.AddCommand(
		NewServeCommand(),
		NewMigrateCommand(),
		NewAdminCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// bootstrap loads the configuration and builds the logger.
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return config, logger, nil
}
