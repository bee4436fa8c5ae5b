// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pulsecrm/pulse-crm/internal/auth"
	"github.com/pulsecrm/pulse-crm/internal/core"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name, role string,
) (*auth.UserInfo, error) {
	if !IsValidRole(role) {
		return nil, fmt.Errorf(
			"create user: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, error) {
	if params.Role != "" && !IsValidRole(params.Role) {
		return nil, fmt.Errorf(
			"list users: invalid role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, params)
}

// ResetPassword replaces the target's password with a random temporary
// one and returns it in clear so staff can hand it over.
func (s *Service) ResetPassword(
	ctx context.Context,
	actorID, targetID string,
) (string, error) {
	tempPassword, err := core.GenerateTemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}

	hash, err := core.HashPassword(tempPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, targetID, hash); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "password reset",
		"target_user_id", targetID,
		"actor_user_id", actorID,
	)

	return tempPassword, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
