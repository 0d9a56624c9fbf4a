package service

import (
	"context"
	"errors"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/jwt"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters")
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info("user logged in", zap.String("email", user.Email))

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &TokenValidationResponse{User: user.ToResponse()}, nil
}

func (s *authService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.Update(ctx, user)
}
