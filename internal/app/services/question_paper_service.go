package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/auth"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
	"github.com/yigit/semesterhub/internal/pkg/helpers"
	"github.com/yigit/semesterhub/internal/pkg/validation"
)

// QuestionPaperRepository is the persistence the question paper service needs
type QuestionPaperRepository interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.QuestionPaper, error)
	Latest(ctx context.Context, limit uint64) ([]models.QuestionPaper, error)
	GetByID(ctx context.Context, id int64) (*models.QuestionPaper, error)
	Create(ctx context.Context, qp *models.QuestionPaper) error
	Update(ctx context.Context, qp *models.QuestionPaper, replaceFile bool) (*string, error)
	Delete(ctx context.Context, id int64) (*string, error)
	Count(ctx context.Context) (int64, error)
}

// QuestionPaperService defines the interface for question paper operations
type QuestionPaperService interface {
	List(ctx context.Context, filter models.ContentFilter) ([]models.QuestionPaper, error)
	Get(ctx context.Context, id int64) (*models.QuestionPaper, error)
	Create(ctx context.Context, principal *models.Principal, input dto.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error)
	Update(ctx context.Context, principal *models.Principal, id int64, input dto.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) error
	Download(ctx context.Context, id int64) (*Download, error)
}

type questionPaperServiceImpl struct {
	repo      QuestionPaperRepository
	semesters SemesterChecker
	authz     *auth.AuthorizationService
	files     contentFiles
	logger    zerolog.Logger
}

// NewQuestionPaperService creates a new QuestionPaperService
func NewQuestionPaperService(
	repo QuestionPaperRepository,
	semesters SemesterChecker,
	authz *auth.AuthorizationService,
	store blobstore.BlobStore,
	logger zerolog.Logger,
) QuestionPaperService {
	return &questionPaperServiceImpl{
		repo:      repo,
		semesters: semesters,
		authz:     authz,
		files:     newContentFiles(store, logger),
		logger:    logger,
	}
}

// List returns question papers, newest year first
func (s *questionPaperServiceImpl) List(ctx context.Context, filter models.ContentFilter) ([]models.QuestionPaper, error) {
	all, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing question papers: %w", err)
	}
	if filter.Search == "" {
		return all, nil
	}

	matched := make([]models.QuestionPaper, 0, len(all))
	for _, qp := range all {
		if helpers.MatchesSearch(filter.Search, qp.Course, strconv.Itoa(qp.Year), helpers.StringValue(qp.FileName)) {
			matched = append(matched, qp)
		}
	}
	return matched, nil
}

// Get returns one question paper
func (s *questionPaperServiceImpl) Get(ctx context.Context, id int64) (*models.QuestionPaper, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *questionPaperServiceImpl) validate(ctx context.Context, input dto.QuestionPaperInput, upload *models.Upload, fileRequired bool) error {
	verr := &apperrors.ValidationError{}
	verr.Merge(validation.Struct(input))
	verr.Merge(checkUpload(validation.PDFDocument, upload, fileRequired))
	if verr.HasErrors() {
		return verr
	}
	return semesterMustExist(ctx, s.semesters, input.SemesterID)
}

// Create validates and stores a new question paper together with its PDF
func (s *questionPaperServiceImpl) Create(ctx context.Context, principal *models.Principal, input dto.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, true); err != nil {
		return nil, err
	}

	filePath, _, err := s.files.save(ctx, models.QuestionPaperDir, upload)
	if err != nil {
		return nil, err
	}

	qp := &models.QuestionPaper{
		SemesterID: input.SemesterID,
		Course:     input.Course,
		Year:       input.Year,
		FilePath:   filePath,
		FileName:   nonBlank(input.FileName),
	}
	if err := s.repo.Create(ctx, qp); err != nil {
		s.files.discard(ctx, &filePath, "question paper insert failed")
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error creating question paper: %w", err)
	}

	s.logger.Info().Int64("questionPaperID", qp.ID).Int64("userID", principal.UserID).Msg("Question paper created")
	return s.repo.GetByID(ctx, qp.ID)
}

// Update changes a question paper, replacing its PDF when a new one is uploaded
func (s *questionPaperServiceImpl) Update(ctx context.Context, principal *models.Principal, id int64, input dto.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, upload, false); err != nil {
		return nil, err
	}

	qp := &models.QuestionPaper{
		ID:         id,
		SemesterID: input.SemesterID,
		Course:     input.Course,
		Year:       input.Year,
		FileName:   nonBlank(input.FileName),
	}

	var newPath *string
	if upload != nil {
		filePath, _, err := s.files.save(ctx, models.QuestionPaperDir, upload)
		if err != nil {
			return nil, err
		}
		newPath = &filePath
		qp.FilePath = filePath
	}

	previous, err := s.repo.Update(ctx, qp, upload != nil)
	if err != nil {
		s.files.discard(ctx, newPath, "question paper update failed")
		if errors.Is(err, apperrors.ErrQuestionPaperNotFound) {
			return nil, err
		}
		if errors.Is(err, apperrors.ErrSemesterNotFound) {
			return nil, invalidSemester()
		}
		return nil, fmt.Errorf("error updating question paper: %w", err)
	}
	s.files.discard(ctx, previous, "question paper file replaced")

	return s.repo.GetByID(ctx, id)
}

// Delete removes a question paper and then its file
func (s *questionPaperServiceImpl) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return err
	}

	filePath, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.files.discard(ctx, filePath, "question paper deleted")

	s.logger.Info().Int64("questionPaperID", id).Int64("userID", principal.UserID).Msg("Question paper deleted")
	return nil
}

// Download opens the PDF of a question paper
func (s *questionPaperServiceImpl) Download(ctx context.Context, id int64) (*Download, error) {
	qp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.files.open(ctx, &qp.FilePath, qp.DownloadName())
}
