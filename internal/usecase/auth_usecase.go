package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

const minPasswordLength = 6

type AuthUsecase struct {
	users     domain.UserRepository
	hasher    domain.PasswordHasher
	tokens    domain.TokenService
	dummyHash string
}

func NewAuthUsecase(users domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenService) (*AuthUsecase, error) {
	// compared against when the email is unknown so both failure paths cost one hash
	dummy, err := hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, err
	}
	return &AuthUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, domain.NormalizeName(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.Upstream("find user", err)
		}
		_ = u.hasher.Compare(u.dummyHash, password)
		zlog.Logger.Warn().Msg("login failed: unknown email")
		return "", domain.ErrInvalidCredentials
	}

	if err := u.hasher.Compare(user.PasswordHash, password); err != nil {
		zlog.Logger.Warn().Str("user_id", user.ID).Msg("login failed: password mismatch")
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	zlog.Logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, nil
}

func (u *AuthUsecase) Verify(_ context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	identity, err := u.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

func (u *AuthUsecase) CreateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	normalized := domain.NormalizeName(email)

	var issues []domain.FieldIssue
	if normalized == "" {
		issues = append(issues, domain.FieldIssue{Field: "email", Msg: "Please include a valid email"})
	}
	if len(password) < minPasswordLength {
		issues = append(issues, domain.FieldIssue{Field: "password", Msg: "Password must be at least 6 characters"})
	}
	if len(issues) > 0 {
		return nil, domain.NewValidationError(issues...)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        normalized,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, domain.Upstream("create user", err)
	}

	return user, nil
}
