package services

import (
	"context"
	"strings"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/app/models/dto"
	"github.com/emre/resitdesk/internal/pkg/apperrors"
	"github.com/emre/resitdesk/internal/pkg/auth"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// UserService provisions student and instructor accounts (secretary only).
// Login and token issuance live in the external identity system; this side
// only stores the account with a bcrypt hash it can hand over.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Create provisions a new account.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role := models.RoleType(req.RoleType)
	if role != models.RoleStudent && role != models.RoleInstructor {
		return nil, apperrors.NewValidationError("roleType must be STUDENT or INSTRUCTOR")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  role,
		IsActive:  true,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Info().Int64("userID", id).Str("roleType", req.RoleType).Msg("User account provisioned")
	return user, nil
}

// GetByID returns a user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
