package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// QuestionPaperDir is the blob directory question paper PDFs are stored under.
const QuestionPaperDir = "question-papers"

// QuestionPaper is a past exam paper for one course and year.
type QuestionPaper struct {
	ID         int64     `json:"id"`
	SemesterID int64     `json:"semester_id"`
	Course     string    `json:"course"`
	Year       int       `json:"year"`
	FilePath   string    `json:"file_path"`
	FileName   *string   `json:"file_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Semester *Semester `json:"semester,omitempty"`
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// DownloadName is the stored display name, or <course>_<year>.pdf slugged.
func (q *QuestionPaper) DownloadName() string {
	if q.FileName != nil && *q.FileName != "" {
		return *q.FileName
	}
	slug := slugSeparators.ReplaceAllString(strings.ToLower(fmt.Sprintf("%s-%d", q.Course, q.Year)), "_")
	return strings.Trim(slug, "_") + ".pdf"
}
