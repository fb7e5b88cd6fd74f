package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/auth"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
	"github.com/yigit/semesterhub/internal/pkg/helpers"
	"github.com/yigit/semesterhub/internal/pkg/validation"
)

// SyllabusRepository is the persistence the syllabus service needs
type SyllabusRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Syllabus, error)
	Latest(ctx context.Context, limit uint64) ([]models.Syllabus, error)
	GetByID(ctx context.Context, id int64) (*models.Syllabus, error)
	Create(ctx context.Context, sy *models.Syllabus) error
	Update(ctx context.Context, sy *models.Syllabus, replaceFile bool) (*string, error)
	Delete(ctx context.Context, id int64) (*string, error)
	Count(ctx context.Context) (int64, error)
}

// SyllabusService defines the interface for syllabus operations
type SyllabusService interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Syllabus, error)
	Get(ctx context.Context, id int64) (*models.Syllabus, error)
	Create(ctx context.Context, principal *models.Principal, input dto.SyllabusInput, upload *models.Upload) (*models.Syllabus, error)
	Update(ctx context.Context, principal *models.Principal, id int64, input dto.SyllabusInput, upload *models.Upload) (*models.Syllabus, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
	Download(ctx context.Context, id int64) (*Download, error)
}

type syllabusServiceImpl struct {
	repo      SyllabusRepository
	semesters SemesterChecker
	authz     *auth.AuthorizationService
	files     contentFiles
	logger    zerolog.Logger
}

// NewSyllabusService creates a new SyllabusService
func NewSyllabusService(
	repo SyllabusRepository,
	semesters SemesterChecker,
	authz *auth.AuthorizationService,
	store blobstore.BlobStore,
	logger zerolog.Logger,
) SyllabusService {
	return &syllabusServiceImpl{
		repo:      repo,
		semesters: semesters,
		authz:     authz,
		files:     newContentFiles(store, logger),
		logger:    logger,
	}
}

// List returns syllabi ordered by course, filtered by semester and search term
func (s *syllabusServiceImpl) List(ctx context.Context, filter models.ContentFilter) ([]models.Syllabus, error) {
	all, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing syllabi: %w", err)
	}
	if filter.Search == "" {
		return all, nil
	}

	matched := make([]models.Syllabus, 0, len(all))
	for _, sy := range all {
		if helpers.MatchesSearch(filter.Search, sy.Course, helpers.StringValue(sy.Description)) {
			matched = append(matched, sy)
		}
	}
	return matched, nil
}

// Get returns one syllabus
func (s *syllabusServiceImpl) Get(ctx context.Context, id int64) (*models.Syllabus, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *syllabusServiceImpl) validate(ctx context.Context, input dto.SyllabusInput, upload *models.Upload, fileRequired bool) error {
	verr := &apperrors.ValidationError{}
	verr.Merge(validation.Struct(input))
	verr.Merge(checkUpload(validation.PDFDocument, upload, fileRequired))
	if verr.HasErrors() {
		return verr
	}
	return semesterMustExist(ctx, s.semesters, input.SemesterID)
}

// Create validates and stores a new syllabus together with its PDF
func (s *syllabusServiceImpl) Create(ctx context.Context, principal *models.Principal, input dto.SyllabusInput, upload *models.Upload) (*models.Syllabus, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, true); err != nil {
		return nil, err
	}

	filePath, size, err := s.files.save(ctx, models.SyllabusDir, upload)
	if err != nil {
		return nil, err
	}

	sy := &models.Syllabus{
		SemesterID:  input.SemesterID,
		Course:      input.Course,
		Description: input.Description,
		FilePath:    &filePath,
		FileName:    helpers.StringPtr(input.FileName),
		FileSize:    &size,
	}
	if err := s.repo.Create(ctx, sy); err != nil {
		s.files.discard(ctx, &filePath, "syllabus insert failed")
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error creating syllabus: %w", err)
	}

	s.logger.Info().Int64("syllabusID", sy.ID).Int64("userID", principal.UserID).Msg("Syllabus created")
	return s.repo.GetByID(ctx, sy.ID)
}

// Update changes a syllabus. A new upload replaces the stored PDF; the file
// it displaced is removed only after the row change committed.
func (s *syllabusServiceImpl) Update(ctx context.Context, principal *models.Principal, id int64, input dto.SyllabusInput, upload *models.Upload) (*models.Syllabus, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, false); err != nil {
		return nil, err
	}

	sy := &models.Syllabus{
		ID:          id,
		SemesterID:  input.SemesterID,
		Course:      input.Course,
		Description: input.Description,
		FileName:    helpers.StringPtr(input.FileName),
	}

	var newPath *string
	if upload != nil {
		filePath, size, err := s.files.save(ctx, models.SyllabusDir, upload)
		if err != nil {
			return nil, err
		}
		newPath = &filePath
		sy.FilePath = newPath
		sy.FileSize = &size
	}

	previous, err := s.repo.Update(ctx, sy, upload != nil)
	if err != nil {
		s.files.discard(ctx, newPath, "syllabus update failed")
		if errors.Is(err, apperrors.ErrSyllabusNotFound) {
			return nil, err
		}
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error updating syllabus: %w", err)
	}
	s.files.discard(ctx, previous, "syllabus file replaced")

	return s.repo.GetByID(ctx, id)
}

// Delete removes a syllabus and then its file
func (s *syllabusServiceImpl) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return err
	}

	filePath, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.files.discard(ctx, filePath, "syllabus deleted")

	s.logger.Info().Int64("syllabusID", id).Int64("userID", principal.UserID).Msg("Syllabus deleted")
	return nil
}

// Download opens the PDF of a syllabus
func (s *syllabusServiceImpl) Download(ctx context.Context, id int64) (*Download, error) {
	sy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.files.open(ctx, sy.FilePath, sy.DownloadName())
}
