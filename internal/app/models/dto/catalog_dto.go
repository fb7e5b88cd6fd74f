package dto

import (
	"fmt"
	"time"

	"github.com/yigit/semesterhub/internal/app/models"
)

// --- Request DTOs ---

// CatalogQuery holds the filters accepted by the catalog listings
type CatalogQuery struct {
	SemesterID *int64 `form:"semester_id"`
	Search     string `form:"search"`
}

// Filter converts the query into a repository filter
func (q CatalogQuery) Filter() models.ContentFilter {
	return models.ContentFilter{SemesterID: q.SemesterID, Search: q.Search}
}

// SyllabusInput carries the text fields of a syllabus upload
type SyllabusInput struct {
	SemesterID  int64   `form:"semester_id" json:"semester_id" validate:"required,gt=0" example:"1"`
	Course      string  `form:"course" json:"course" validate:"required,max=255" example:"Database Management Systems"`
	Description *string `form:"description" json:"description" validate:"omitempty,max=1000"`
	FileName    string  `form:"file_name" json:"file_name" validate:"required,max=255" example:"DBMS Syllabus 2024"`
}

// QuestionPaperInput carries the text fields of a question paper upload
type QuestionPaperInput struct {
	SemesterID int64   `form:"semester_id" json:"semester_id" validate:"required,gt=0" example:"3"`
	Course     string  `form:"course" json:"course" validate:"required,max=255" example:"Data Structures"`
	Year       int     `form:"year" json:"year" validate:"required,gte=1900,lte=2100" example:"2023"`
	FileName   *string `form:"file_name" json:"file_name" validate:"omitempty,max=255"`
}

// ResourceInput carries the text fields of a study resource upload
type ResourceInput struct {
	Title       string  `form:"title" json:"title" validate:"required,max=255" example:"Handwritten Calculus Notes"`
	SemesterID  int64   `form:"semester_id" json:"semester_id" validate:"required,gt=0" example:"1"`
	Description *string `form:"description" json:"description" validate:"omitempty,max=1000"`
}

// --- Response DTOs ---

// SemesterRef is the semester summary embedded in catalog items
type SemesterRef struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"First Semester"`
}

func newSemesterRef(s *models.Semester) *SemesterRef {
	if s == nil {
		return nil
	}
	return &SemesterRef{ID: s.ID, Name: s.Name}
}

// SyllabusResponse is a syllabus as returned to clients
type SyllabusResponse struct {
	ID          int64        `json:"id"`
	SemesterID  int64        `json:"semester_id"`
	Semester    *SemesterRef `json:"semester,omitempty"`
	Course      string       `json:"course"`
	Description *string      `json:"description,omitempty"`
	FileName    string       `json:"file_name"`
	FileSize    *int64       `json:"file_size,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewSyllabusResponse maps a syllabus; basePath is the API prefix download links hang off
func NewSyllabusResponse(s *models.Syllabus, basePath string) SyllabusResponse {
	resp := SyllabusResponse{
		ID:          s.ID,
		SemesterID:  s.SemesterID,
		Semester:    newSemesterRef(s.Semester),
		Course:      s.Course,
		Description: s.Description,
		FileName:    s.DownloadName(),
		FileSize:    s.FileSize,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.FilePath != nil {
		resp.DownloadURL = fmt.Sprintf("%s/syllabi/%d/download", basePath, s.ID)
	}
	return resp
}

// NewSyllabusListResponse maps a list of syllabi
func NewSyllabusListResponse(items []models.Syllabus, basePath string) []SyllabusResponse {
	out := make([]SyllabusResponse, 0, len(items))
	for i := range items {
		out = append(out, NewSyllabusResponse(&items[i], basePath))
	}
	return out
}

// QuestionPaperResponse is a question paper as returned to clients
type QuestionPaperResponse struct {
	ID          int64        `json:"id"`
	SemesterID  int64        `json:"semester_id"`
	Semester    *SemesterRef `json:"semester,omitempty"`
	Course      string       `json:"course"`
	Year        int          `json:"year"`
	FileName    string       `json:"file_name"`
	DownloadURL string       `json:"download_url"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewQuestionPaperResponse maps a question paper
func NewQuestionPaperResponse(q *models.QuestionPaper, basePath string) QuestionPaperResponse {
	return QuestionPaperResponse{
		ID:          q.ID,
		SemesterID:  q.SemesterID,
		Semester:    newSemesterRef(q.Semester),
		Course:      q.Course,
		Year:        q.Year,
		FileName:    q.DownloadName(),
		DownloadURL: fmt.Sprintf("%s/question-papers/%d/download", basePath, q.ID),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// NewQuestionPaperListResponse maps a list of question papers
func NewQuestionPaperListResponse(items []models.QuestionPaper, basePath string) []QuestionPaperResponse {
	out := make([]QuestionPaperResponse, 0, len(items))
	for i := range items {
		out = append(out, NewQuestionPaperResponse(&items[i], basePath))
	}
	return out
}

// CourseGroup holds the papers of one course
type CourseGroup struct {
	Course string                  `json:"course"`
	Papers []QuestionPaperResponse `json:"papers"`
}

// SemesterPapersResponse is the semester page for question papers
type SemesterPapersResponse struct {
	Semester SemesterRef             `json:"semester"`
	Papers   []QuestionPaperResponse `json:"papers"`
	ByCourse []CourseGroup           `json:"by_course"`
}

// GroupPapersByCourse groups papers by course, keeping first-seen course order
func GroupPapersByCourse(papers []QuestionPaperResponse) []CourseGroup {
	groups := []CourseGroup{}
	index := map[string]int{}
	for _, p := range papers {
		i, ok := index[p.Course]
		if !ok {
			i = len(groups)
			index[p.Course] = i
			groups = append(groups, CourseGroup{Course: p.Course})
		}
		groups[i].Papers = append(groups[i].Papers, p)
	}
	return groups
}

// ResourceResponse is a study resource as returned to clients
type ResourceResponse struct {
	ID          int64        `json:"id"`
	SemesterID  int64        `json:"semester_id"`
	Semester    *SemesterRef `json:"semester,omitempty"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	FileName    string       `json:"file_name,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewResourceResponse maps a resource
func NewResourceResponse(r *models.Resource, basePath string) ResourceResponse {
	resp := ResourceResponse{
		ID:          r.ID,
		SemesterID:  r.SemesterID,
		Semester:    newSemesterRef(r.Semester),
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.FilePath != nil {
		resp.FileName = r.DownloadName()
		resp.DownloadURL = fmt.Sprintf("%s/resources/%d/download", basePath, r.ID)
	}
	return resp
}

// NewResourceListResponse maps a list of resources
func NewResourceListResponse(items []models.Resource, basePath string) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(items))
	for i := range items {
		out = append(out, NewResourceResponse(&items[i], basePath))
	}
	return out
}

// SemesterListingResponse is a semester page for syllabi or resources
type SemesterListingResponse struct {
	Semester SemesterRef `json:"semester"`
	Items    interface{} `json:"items"`
}

// NewSemesterRef maps a semester to its summary
func NewSemesterRef(s *models.Semester) SemesterRef {
	return SemesterRef{ID: s.ID, Name: s.Name}
}

// HomeFeedResponse is the landing page feed
type HomeFeedResponse struct {
	Syllabi        []SyllabusResponse      `json:"syllabi"`
	QuestionPapers []QuestionPaperResponse `json:"question_papers"`
	Resources      []ResourceResponse      `json:"resources"`
}

// DashboardStats holds the admin dashboard counters
type DashboardStats struct {
	Syllabi        int64 `json:"syllabi" example:"12"`
	QuestionPapers int64 `json:"question_papers" example:"40"`
	Resources      int64 `json:"resources" example:"7"`
	Users          int64 `json:"users" example:"3"`
	Semesters      int64 `json:"semesters" example:"8"`
}
