package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/tokens"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const DefaultTokenTTL = 24 * time.Hour

type AuthService struct {
	Repo       *repo.GormRepo
	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
	Metrics    *metrics.Metrics
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return s.TokenTTL
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	pwHash, err := hash.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Address:      strings.TrimSpace(req.Address),
		PostalCode:   req.PostalCode,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Metrics.UserRegistered()
	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// Login answers InvalidCredentials for an unknown email and a wrong password
// alike, so callers cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Metrics.LoginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		s.Metrics.LoginFailed()
		l.Warn("login_failed", "user_id", user.ID, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	exp := now.Add(s.ttl())
	token, err := tokens.CreateAccessToken(user.ID, s.JWTSecret, now, exp)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// VerifyToken checks signature, algorithm and expiry and returns the user id.
// It does not touch the store.
func (s *AuthService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	claims, err := tokens.AccessClaimsFromToken(token, s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.UserID, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateAddress(ctx context.Context, userID, address, postalCode string) (*models.User, error) {
	if err := validateAddress(address, postalCode); err != nil {
		return nil, err
	}

	user, err := s.Repo.UpdateUserAddress(ctx, userID, strings.TrimSpace(address), postalCode)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update address: %w", err)
	}
	return user, nil
}
