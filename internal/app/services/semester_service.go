package services

import (
	"context"
	"fmt"

	"github.com/yigit/semesterhub/internal/app/models"
)

// SemesterRepository is the persistence the semester service needs
type SemesterRepository interface {
	ListWithCounts(ctx context.Context) ([]models.SemesterWithCounts, error)
	GetByID(ctx context.Context, id int64) (*models.Semester, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// SemesterService defines the interface for semester operations
type SemesterService interface {
	List(ctx context.Context) ([]models.SemesterWithCounts, error)
	Get(ctx context.Context, id int64) (*models.Semester, error)
}

type semesterServiceImpl struct {
	repo SemesterRepository
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(repo SemesterRepository) SemesterService {
	return &semesterServiceImpl{repo: repo}
}

// List returns every semester with its content counts, in id order
func (s *semesterServiceImpl) List(ctx context.Context) ([]models.SemesterWithCounts, error) {
	semesters, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}
	return semesters, nil
}

// Get returns one semester
func (s *semesterServiceImpl) Get(ctx context.Context, id int64) (*models.Semester, error) {
	return s.repo.GetByID(ctx, id)
}
