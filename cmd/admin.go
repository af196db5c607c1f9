package cmd

import (
	"fmt"

	"movie-review/internal/dto/request"
	"movie-review/internal/usecase"

	"github.com/spf13/cobra"
)

func NewAdminCommand() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Administrative tasks",
	}
	admin.AddCommand(newAdminCreateCommand())
	return admin
}

func newAdminCreateCommand() *cobra.Command {
	var req request.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// A memory store would vanish with this process.
			if config.Datastore.Engine == "memory" {
				return fmt.Errorf("admin create needs a persistent datastore, got %q", config.Datastore.Engine)
			}

			repo, closeRepo, err := openRepository(cmd.Context(), config, false, logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			req.IsAdmin = true
			user, err := usecase.NewUserService(repo, logger).CreateUser(cmd.Context(), &req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created administrator %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Username, "username", "", "login name")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.Password, "password", "", "password, at least 8 characters")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
