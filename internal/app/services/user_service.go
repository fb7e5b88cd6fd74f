package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/semesterhub/internal/app/auth"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/auth"
	"github.com/yigit/semesterhub/internal/pkg/validation"
)

// UserRepository is the persistence the user and auth services need
type UserRepository interface {
	List(ctx context.Context, offset uint64, limit int) ([]models.User, int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// UserService defines the interface for account administration
type UserService interface {
	List(ctx context.Context, principal *models.Principal, offset uint64, limit int) ([]models.User, int64, error)
	Get(ctx context.Context, principal *models.Principal, id int64) (*models.User, error)
	Create(ctx context.Context, principal *models.Principal, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, principal *models.Principal, id int64, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
}

type userServiceImpl struct {
	repo   UserRepository
	authz  *appauth.AuthorizationService
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, authz *appauth.AuthorizationService, logger zerolog.Logger) UserService {
	return &userServiceImpl{repo: repo, authz: authz, logger: logger}
}

// List returns a page of users
func (s *userServiceImpl) List(ctx context.Context, principal *models.Principal, offset uint64, limit int) ([]models.User, int64, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, 0, err
	}
	users, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	return users, total, nil
}

// Get returns one user
func (s *userServiceImpl) Get(ctx context.Context, principal *models.Principal, id int64) (*models.User, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create registers a new account with a hashed password
func (s *userServiceImpl) Create(ctx context.Context, principal *models.Principal, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if verr := validation.Struct(req); verr.HasErrors() {
		return nil, verr
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Int64("adminID", principal.UserID).Msg("User created")
	return user, nil
}

// Update changes an account; the password is only replaced when one is given
func (s *userServiceImpl) Update(ctx context.Context, principal *models.Principal, id int64, req dto.UpdateUserRequest) (*models.User, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if verr := validation.Struct(req); verr.HasErrors() {
		return nil, verr
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = req.Email
	user.Role = req.Role
	user.Password = ""
	if req.Password != "" {
		if user.Password, err = auth.HashPassword(req.Password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *userServiceImpl) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return err
	}
	if principal.UserID == id {
		return apperrors.NewForbiddenError(apperrors.ErrCannotDeleteSelf.Error())
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Int64("adminID", principal.UserID).Msg("User deleted")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
