package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/auth"
)

// SemesterSeeder inserts missing semester names
type SemesterSeeder interface {
	EnsureNames(ctx context.Context, names []string) (int64, error)
}

// AdminSeeder looks up and creates accounts
type AdminSeeder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// Admin describes the default super admin account
type Admin struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultData creates the semester list and the default admin if they
// don't exist. It is safe to run on every start.
func CreateDefaultData(ctx context.Context, semesters SemesterSeeder, users AdminSeeder, admin Admin, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Semesters/Admin)...")
	var finalErr error // To collect potential errors without stopping the process

	created, err := semesters.EnsureNames(ctx, models.DefaultSemesterNames)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default semesters")
		finalErr = errors.Join(finalErr, err)
	} else if created > 0 {
		lgr.Info().Int64("created", created).Msg("Default semesters created")
	}

	if err := createAdmin(ctx, users, admin, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, users AdminSeeder, admin Admin, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin email or password not configured, skipping admin creation")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	user := &models.User{
		Name:     admin.Name,
		Email:    email,
		Password: hashed,
		Role:     models.RoleSuperAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}
