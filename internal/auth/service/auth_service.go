package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/d4vhost/salesmanager/internal/auth"
	"github.com/d4vhost/salesmanager/internal/auth/domain"
	"github.com/d4vhost/salesmanager/internal/auth/repository"
	"github.com/d4vhost/salesmanager/internal/platform/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
)

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
}

type authServiceImpl struct {
	repo   repository.UserRepository
	secret []byte
}

func NewAuthService(repo repository.UserRepository, secret []byte) AuthService {
	return &authServiceImpl{repo: repo, secret: secret}
}

func (s *authServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err, nil)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		EmployeeID:   req.EmployeeID,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("Register: failed to create user", err, nil)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("Login: failed to get user", err, nil)
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.NewToken(s.secret, user.ID, user.Email, user.EmployeeID)
	if err != nil {
		logger.Error("Login: failed to sign token", err, nil)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	user.PasswordHash = ""
	return &domain.LoginResponse{User: *user, Token: token}, nil
}
