// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	revoker      TokenRevoker
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	revoker TokenRevoker,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		revoker:      revoker,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = middleware.RoleSalesExecutive
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(
		ctx,
		strings.ToLower(strings.TrimSpace(req.Email)),
		passwordHash,
		req.Name,
		role,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(
		ctx,
		strings.ToLower(strings.TrimSpace(req.Email)),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.createAuthResponse(user)
}

// Logout revokes the presented token until it expires.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil || claims.TokenID == "" {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) createAuthResponse(user *UserInfo) (*AuthResponse, error) {
	issued, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}
