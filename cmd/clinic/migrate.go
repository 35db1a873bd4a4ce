package main

import (
	"context"
	"time"

	mongoMigration "clinic/internal/migrations/mongo"
	userRepository "clinic/internal/users/repository"
	userService "clinic/internal/users/service"
	userValidator "clinic/internal/users/validator"
	"clinic/pkg/auth"
	"clinic/pkg/clock"
	"clinic/pkg/config"

	"github.com/spf13/cobra"
)

const JobName = "mongo-migration"

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, validators and indexes, then seed the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return runMigration(cmd.Context(), timeout)
		},
	}
	cmd.Flags().Duration("timeout", 120*time.Second, "Overall deadline for the migration")
	return cmd
}

func runMigration(parent context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()
	cfg.Log.Info("Starting Mongo migration job")

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		return err
	}

	if err := seedAdmin(ctx, cfg); err != nil {
		return err
	}

	cfg.Log.Info("Migration completed successfully")
	return nil
}

func seedAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg.AdminEmail == "" {
		cfg.Log.Info("No admin account configured, skipping seed")
		return nil
	}

	users := userService.NewUserService(
		userRepository.NewMongoUserRepository(cfg),
		userValidator.NewUserValidator(cfg.Log),
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, clock.System),
		clock.System,
		cfg,
	)
	admin, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		cfg.Log.Error("Failed to seed admin account", "email", cfg.AdminEmail, "error", err)
		return err
	}
	cfg.Log.Info("Admin account ready", "user_id", admin.ID, "email", admin.Email)
	return nil
}
