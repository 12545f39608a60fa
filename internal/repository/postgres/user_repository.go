package postgres

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

type userRepository struct {
	db       *dbpg.DB
	writer   execer
	strategy retry.Strategy
}

func NewUserRepository(db *dbpg.DB, strategy retry.Strategy) domain.UserRepository {
	return &userRepository{
		db:       db,
		writer:   db.Master,
		strategy: strategy,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.writer.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		zlog.Logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create user")
		return fmt.Errorf("create user: %w", err)
	}

	zlog.Logger.Info().Str("user_id", user.ID).Msg("user created successfully")
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, email)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to find user by email")
		return nil, fmt.Errorf("find user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		return nil, domain.ErrUserNotFound
	}

	var u domain.User
	if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
