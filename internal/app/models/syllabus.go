package models

import (
	"path"
	"time"
)

// SyllabusDir is the blob directory syllabus PDFs are stored under.
const SyllabusDir = "syllabi"

// Syllabus is a course syllabus uploaded as a PDF.
type Syllabus struct {
	ID          int64     `json:"id"`
	SemesterID  int64     `json:"semester_id"`
	Course      string    `json:"course"`
	Description *string   `json:"description,omitempty"`
	FilePath    *string   `json:"file_path,omitempty"`
	FileName    *string   `json:"file_name,omitempty"`
	FileSize    *int64    `json:"file_size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Semester *Semester `json:"semester,omitempty"`
}

// DownloadName is the file name offered to clients when downloading.
func (s *Syllabus) DownloadName() string {
	if s.FileName != nil && *s.FileName != "" {
		return *s.FileName
	}
	if s.FilePath != nil {
		return path.Base(*s.FilePath)
	}
	return "syllabus.pdf"
}
