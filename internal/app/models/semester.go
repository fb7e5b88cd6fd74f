package models

import "time"

// Semester is one academic term; all catalog content is scoped to a semester.
type Semester struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"First Semester"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SemesterWithCounts is a semester together with the number of items it holds.
type SemesterWithCounts struct {
	Semester
	SyllabiCount        int64 `json:"syllabi_count"`
	QuestionPapersCount int64 `json:"question_papers_count"`
	ResourcesCount      int64 `json:"resources_count"`
}

// DefaultSemesterNames are seeded on first start, in id order.
var DefaultSemesterNames = []string{
	"First Semester",
	"Second Semester",
	"Third Semester",
	"Fourth Semester",
	"Fifth Semester",
	"Sixth Semester",
	"Seventh Semester",
	"Eighth Semester",
}
