package services

import (
	"context"
	"fmt"

	"github.com/yigit/semesterhub/internal/app/auth"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"golang.org/x/sync/errgroup"
)

// HomeFeedSize is how many items of each content type the home feed shows
const HomeFeedSize = 24

// HomeFeed holds the newest content of every type
type HomeFeed struct {
	Syllabi        []models.Syllabus
	QuestionPapers []models.QuestionPaper
	Resources      []models.Resource
}

// UserCounter counts registered accounts
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// OverviewService builds the public home feed and the admin dashboard
type OverviewService interface {
	HomeFeed(ctx context.Context) (*HomeFeed, error)
	Dashboard(ctx context.Context, principal *models.Principal) (*dto.DashboardStats, error)
}

type overviewServiceImpl struct {
	syllabi        SyllabusRepository
	questionPapers QuestionPaperRepository
	resources      ResourceRepository
	semesters      SemesterRepository
	users          UserCounter
	authz          *auth.AuthorizationService
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(
	syllabi SyllabusRepository,
	questionPapers QuestionPaperRepository,
	resources ResourceRepository,
	semesters SemesterRepository,
	users UserCounter,
	authz *auth.AuthorizationService,
) OverviewService {
	return &overviewServiceImpl{
		syllabi:        syllabi,
		questionPapers: questionPapers,
		resources:      resources,
		semesters:      semesters,
		users:          users,
		authz:          authz,
	}
}

// HomeFeed loads the latest syllabi, question papers and resources concurrently
func (s *overviewServiceImpl) HomeFeed(ctx context.Context) (*HomeFeed, error) {
	feed := &HomeFeed{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		feed.Syllabi, err = s.syllabi.Latest(ctx, HomeFeedSize)
		return err
	})
	g.Go(func() (err error) {
		feed.QuestionPapers, err = s.questionPapers.Latest(ctx, HomeFeedSize)
		return err
	})
	g.Go(func() (err error) {
		feed.Resources, err = s.resources.Latest(ctx, HomeFeedSize)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error loading home feed: %w", err)
	}
	return feed, nil
}

// Dashboard returns the admin counters
func (s *overviewServiceImpl) Dashboard(ctx context.Context, principal *models.Principal) (*dto.DashboardStats, error) {
	if err := s.authz.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{}
	counters := []struct {
		name  string
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{"syllabi", s.syllabi.Count, &stats.Syllabi},
		{"question papers", s.questionPapers.Count, &stats.QuestionPapers},
		{"resources", s.resources.Count, &stats.Resources},
		{"users", s.users.Count, &stats.Users},
		{"semesters", s.semesters.Count, &stats.Semesters},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("error counting %s: %w", c.name, err)
		}
		*c.dst = n
	}
	return stats, nil
}
