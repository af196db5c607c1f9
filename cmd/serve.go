package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"movie-review/internal/data/migrations"
	"movie-review/internal/data/repository"
	"movie-review/internal/data/repository/memory"
	"movie-review/internal/usecase"
	"movie-review/internal/wire"
	"movie-review/pkg/database"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	portFlag          = "port"
	autoMigrateFlag   = "migrate"
	sessionSweepEvery = time.Hour
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	flags := cmd.Flags()
	flags.String(portFlag, "", "listen port (env PORT)")
	flags.Bool(autoMigrateFlag, false, "apply pending migrations before serving (postgres only)")
	mustBind("PORT", flags.Lookup(portFlag))
	mustBind("AUTO_MIGRATE", flags.Lookup(autoMigrateFlag))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("engine", config.Datastore.Engine),
		zap.Bool("debug", config.App.Debug),
	)

	tokens, err := token.NewManager(config.JWT.Secret, config.JWT.Issuer, config.JWT.AccessTTL, config.JWT.RefreshTTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, config, viper.GetBool("AUTO_MIGRATE"), logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	app := wire.Wiring(repo, tokens, config, logger)

	go sweepSessions(ctx, app.Service.Auth, sessionSweepEvery, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// openRepository selects the storage engine. The returned func releases it.
func openRepository(ctx context.Context, config *utils.Config, migrate bool, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Datastore.Engine {
	case "memory":
		logger.Warn("Using the in-memory datastore; data is lost on exit")
		return memory.New(), func() {}, nil

	case "postgres", "":
		if migrate {
			err := database.Migrate(ctx, database.DSN(config.Database), migrations.FS(), database.MigrateOptions{
				Timeout: config.Database.ConnectTimeout,
			}, logger)
			if err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}

		db, err := database.InitDB(ctx, config.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("Database connected successfully")
		return repository.NewRepository(db, logger), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown datastore engine %q", config.Datastore.Engine)
	}
}

// sweepSessions deletes long-expired refresh sessions until ctx is done.
func sweepSessions(ctx context.Context, auth usecase.AuthService, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.CleanExpiredSessions(ctx); err != nil {
				logger.Error("Session cleanup failed", zap.Error(err))
			}
		}
	}
}
