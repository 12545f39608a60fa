package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/helpers"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/cache"
	infradatabase "github.com/yokitheyo/mediacatalog/internal/infrastructure/database"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/hasher"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/token"
	"github.com/yokitheyo/mediacatalog/internal/repository/postgres"
	"github.com/yokitheyo/mediacatalog/internal/retry"
	"github.com/yokitheyo/mediacatalog/internal/usecase"
)

var defaultCategories = []string{"recent", "popular", "featured", "random", "collections", "nature"}

type seedEnv struct {
	cfg *config.Config
	db  *dbpg.DB
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the media catalog with categories and an admin account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	root.AddCommand(newCategoriesCmd(&configPath), newAdminCmd(&configPath))
	return root
}

func newCategoriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories [name...]",
		Short: "Create categories (the default set when no names are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer infradatabase.Close(env.db)

			catalog := usecase.NewCatalogUsecase(
				postgres.NewImageRepository(env.db, retry.DefaultStrategy),
				postgres.NewCategoryRepository(env.db, retry.DefaultStrategy),
				cache.NewFromConfig(&env.cfg.Cache),
			)

			names := args
			if len(names) == 0 {
				names = defaultCategories
			}
			created, err := seedCategories(cmd.Context(), catalog, names)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d categories created\n", created, len(names))
			return nil
		},
	}
}

// seedCategories skips names that already exist so the command can be rerun.
func seedCategories(ctx context.Context, catalog domain.CatalogService, names []string) (int, error) {
	created := 0
	for _, name := range names {
		category, err := catalog.CreateCategory(ctx, name)
		switch {
		case errors.Is(err, domain.ErrCategoryExists):
			zlog.Logger.Info().Str("category", domain.NormalizeName(name)).Msg("category already exists")
		case err != nil:
			return created, fmt.Errorf("create category %q: %w", name, err)
		default:
			created++
			zlog.Logger.Info().Str("category", category.Name).Msg("category created")
		}
	}
	return created, nil
}

func newAdminCmd(configPath *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer infradatabase.Close(env.db)

			auth, err := usecase.NewAuthUsecase(
				postgres.NewUserRepository(env.db, retry.DefaultStrategy),
				hasher.NewBcryptHasher(hasher.DefaultCost),
				token.NewJWTService(env.cfg.Auth.JWTSecret, time.Duration(env.cfg.Auth.TokenTTLMin)*time.Minute),
			)
			if err != nil {
				return err
			}

			user, err := auth.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func openEnv(configPath string) (*seedEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := helpers.SetLogLevel(cfg.Logging.Level); err != nil {
		zlog.Logger.Warn().Err(err).Msg("keeping default log level")
	}

	db, err := infradatabase.Connect(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := infradatabase.RunMigrations(db, cfg.Migrations.Path); err != nil {
		infradatabase.Close(db)
		return nil, err
	}
	return &seedEnv{cfg: cfg, db: db}, nil
}
