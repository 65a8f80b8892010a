package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JasonLinn/cryo-booking/internal/auth"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/repository"
	"github.com/google/uuid"
)

type UserUseCase interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (auth.AccessToken, error)
}

type LoginResult struct {
	User  *domain.User
	Token auth.AccessToken
}

type UserService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	log        *slog.Logger
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, bcryptCost int, log *slog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Login checks the password and issues an access token. Unknown emails,
// guest accounts without a password and wrong passwords all yield
// domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.log.Info("login failed", slog.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureAdmin creates or promotes the bootstrap administrator. It is a no-op
// when email or password is empty.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.UpsertAdmin(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}

	s.log.Info("admin account ready", slog.String("user_id", user.ID))
	return user, nil
}

var _ UserUseCase = (*UserService)(nil)
