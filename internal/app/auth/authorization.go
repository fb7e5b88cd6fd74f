package auth

import (
	"context"
	"errors"

	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/logger"
)

// UserFinder loads the current state of an account
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService decides whether a principal may perform an action
type AuthorizationService struct {
	users UserFinder
}

// NewAuthorizationService creates a new AuthorizationService. users may be nil,
// in which case the role carried by the principal is trusted as-is.
func NewAuthorizationService(users UserFinder) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// RequireAdmin fails unless principal is a super admin. When a user store is
// configured the role is re-read so a demoted account loses access before its
// token expires.
func (s *AuthorizationService) RequireAdmin(ctx context.Context, principal *models.Principal) error {
	if principal == nil {
		return apperrors.ErrUnauthenticated
	}
	if !principal.IsAdmin() {
		return apperrors.NewForbiddenError("only administrators can manage content")
	}
	if s == nil || s.users == nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrUnauthenticated
		}
		logger.Error().Err(err).Int64("userID", principal.UserID).Msg("Error reloading user in RequireAdmin")
		return err
	}
	if !user.IsAdmin() {
		return apperrors.NewForbiddenError("only administrators can manage content")
	}
	return nil
}
