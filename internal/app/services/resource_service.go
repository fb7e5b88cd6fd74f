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

// ResourceRepository is the persistence the resource service needs
type ResourceRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Resource, error)
	Latest(ctx context.Context, limit uint64) ([]models.Resource, error)
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	Create(ctx context.Context, res *models.Resource) error
	Update(ctx context.Context, res *models.Resource, replaceFile bool) (*string, error)
	Delete(ctx context.Context, id int64) (*string, error)
	Count(ctx context.Context) (int64, error)
}

// ResourceService defines the interface for study resource operations
type ResourceService interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.Resource, error)
	Get(ctx context.Context, id int64) (*models.Resource, error)
	Create(ctx context.Context, principal *models.Principal, input dto.ResourceInput, upload *models.Upload) (*models.Resource, error)
	Update(ctx context.Context, principal *models.Principal, id int64, input dto.ResourceInput, upload *models.Upload) (*models.Resource, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
	Download(ctx context.Context, id int64) (*Download, error)
}

type resourceServiceImpl struct {
	repo      ResourceRepository
	semesters SemesterChecker
	authz     *auth.AuthorizationService
	files     contentFiles
	logger    zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	repo ResourceRepository,
	semesters SemesterChecker,
	authz *auth.AuthorizationService,
	store blobstore.BlobStore,
	logger zerolog.Logger,
) ResourceService {
	return &resourceServiceImpl{
		repo:      repo,
		semesters: semesters,
		authz:     authz,
		files:     newContentFiles(store, logger),
		logger:    logger,
	}
}

// List returns resources, most recent first
func (s *resourceServiceImpl) List(ctx context.Context, filter models.ContentFilter) ([]models.Resource, error) {
	all, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	if filter.Search == "" {
		return all, nil
	}

	matched := make([]models.Resource, 0, len(all))
	for _, res := range all {
		if helpers.MatchesSearch(filter.Search, res.Title, helpers.StringValue(res.Description)) {
			matched = append(matched, res)
		}
	}
	return matched, nil
}

// Get returns one resource
func (s *resourceServiceImpl) Get(ctx context.Context, id int64) (*models.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *resourceServiceImpl) validate(ctx context.Context, input dto.ResourceInput, upload *models.Upload, fileRequired bool) error {
	verr := &apperrors.ValidationError{}
	verr.Merge(validation.Struct(input))
	verr.Merge(checkUpload(validation.StudyResource, upload, fileRequired))
	if verr.HasErrors() {
		return verr
	}
	return semesterMustExist(ctx, s.semesters, input.SemesterID)
}

// Create validates and stores a new resource together with its file
func (s *resourceServiceImpl) Create(ctx context.Context, principal *models.Principal, input dto.ResourceInput, upload *models.Upload) (*models.Resource, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, true); err != nil {
		return nil, err
	}

	filePath, _, err := s.files.save(ctx, models.ResourceDir, upload)
	if err != nil {
		return nil, err
	}

	res := &models.Resource{
		SemesterID:  input.SemesterID,
		Title:       input.Title,
		Description: input.Description,
		FilePath:    &filePath,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		s.files.discard(ctx, &filePath, "resource insert failed")
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error creating resource: %w", err)
	}

	s.logger.Info().Int64("resourceID", res.ID).Int64("userID", principal.UserID).Msg("Resource created")
	return s.repo.GetByID(ctx, res.ID)
}

// Update changes a resource, replacing its file when a new one is uploaded
func (s *resourceServiceImpl) Update(ctx context.Context, principal *models.Principal, id int64, input dto.ResourceInput, upload *models.Upload) (*models.Resource, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, false); err != nil {
		return nil, err
	}

	res := &models.Resource{
		ID:          id,
		SemesterID:  input.SemesterID,
		Title:       input.Title,
		Description: input.Description,
	}

	var newPath *string
	if upload != nil {
		filePath, _, err := s.files.save(ctx, models.ResourceDir, upload)
		if err != nil {
			return nil, err
		}
		newPath = &filePath
		res.FilePath = newPath
	}

	previous, err := s.repo.Update(ctx, res, upload != nil)
	if err != nil {
		s.files.discard(ctx, newPath, "resource update failed")
		if errors.Is(err, apperrors.ErrCatalogResourceNotFound) {
			return nil, err
		}
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error updating resource: %w", err)
	}
	s.files.discard(ctx, previous, "resource file replaced")

	return s.repo.GetByID(ctx, id)
}

// Delete removes a resource and then its file
func (s *resourceServiceImpl) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return err
	}

	filePath, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.files.discard(ctx, filePath, "resource deleted")

	s.logger.Info().Int64("resourceID", id).Int64("userID", principal.UserID).Msg("Resource deleted")
	return nil
}

// Download opens the file of a resource
func (s *resourceServiceImpl) Download(ctx context.Context, id int64) (*Download, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.files.open(ctx, res.FilePath, res.DownloadName())
}
