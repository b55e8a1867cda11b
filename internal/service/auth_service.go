package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"userbase/internal/auth"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/repository"
)

// AuthService handles sign-up and sign-in.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password, role string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// SignUp creates a new user with a hashed password.
func (s *authService) SignUp(ctx context.Context, name, email, password, role string) (*model.User, error) {
	// Pre-check narrows the race window; the unique index on email is the
	// authoritative guard and Create translates its violation.
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// SignIn authenticates a user by email and password.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}
