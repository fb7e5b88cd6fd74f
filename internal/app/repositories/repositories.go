package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	SemesterRepository      *SemesterRepository
	SyllabusRepository      *SyllabusRepository
	QuestionPaperRepository *QuestionPaperRepository
	ResourceRepository      *ResourceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		SemesterRepository:      NewSemesterRepository(db),
		SyllabusRepository:      NewSyllabusRepository(db),
		QuestionPaperRepository: NewQuestionPaperRepository(db),
		ResourceRepository:      NewResourceRepository(db),
	}
}
