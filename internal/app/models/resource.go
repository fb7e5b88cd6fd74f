package models

import (
	"path"
	"time"
)

// ResourceDir is the blob directory study resources are stored under.
const ResourceDir = "uploads/resources"

// Resource is a generic study resource (PDF or image).
type Resource struct {
	ID          int64     `json:"id"`
	SemesterID  int64     `json:"semester_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FilePath    *string   `json:"file_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Semester *Semester `json:"semester,omitempty"`
}

// DownloadName is the base name of the stored file.
func (r *Resource) DownloadName() string {
	if r.FilePath == nil {
		return "resource"
	}
	return path.Base(*r.FilePath)
}
