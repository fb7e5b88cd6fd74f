package validation

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

const megabyte = 1024 * 1024

// Field length limits shared by the catalog inputs
const (
	TitleMaxLength       = 255
	DescriptionMaxLength = 1000
	QuestionMaxLength    = 1000
	PasswordMinLength    = 8
)

// FileRule describes what an uploaded file may look like.
type FileRule struct {
	Field    string
	MaxBytes int64
	// Allowed MIME types, matched against the sniffed content type.
	Allowed []string
	// Label names the accepted types in error messages.
	Label string
}

// PDFDocument accepts PDFs up to 10MB (syllabi and question papers).
var PDFDocument = FileRule{
	Field:    "file",
	MaxBytes: 10 * megabyte,
	Allowed:  []string{"application/pdf"},
	Label:    "pdf",
}

// StudyResource accepts PDFs and common images up to 20MB.
var StudyResource = FileRule{
	Field:    "file",
	MaxBytes: 20 * megabyte,
	Allowed:  []string{"application/pdf", "image/jpeg", "image/png", "image/gif", "image/webp"},
	Label:    "pdf, jpg, jpeg, png, gif, webp",
}

// Check validates the declared size and the sniffed content type of an
// upload. content is rewound to its start before returning.
func (r FileRule) Check(size int64, content io.ReadSeeker) (string, *apperrors.ValidationError) {
	if content == nil {
		return "", apperrors.NewValidationError(r.Field, "The "+r.Field+" field is required.")
	}
	if size <= 0 {
		return "", apperrors.NewValidationError(r.Field, "The "+r.Field+" field must not be empty.")
	}
	if size > r.MaxBytes {
		return "", apperrors.NewValidationError(r.Field,
			fmt.Sprintf("The %s field must not be greater than %d kilobytes.", r.Field, r.MaxBytes/1024))
	}

	detected, err := mimetype.DetectReader(content)
	if _, seekErr := content.Seek(0, io.SeekStart); seekErr != nil {
		return "", apperrors.NewValidationError(r.Field, "The "+r.Field+" field could not be read.")
	}
	if err != nil {
		return "", apperrors.NewValidationError(r.Field, "The "+r.Field+" field could not be read.")
	}

	for _, allowed := range r.Allowed {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", apperrors.NewValidationError(r.Field,
		"The "+r.Field+" field must be a file of type: "+r.Label+".")
}

// RequireText rejects values that are empty after trimming whitespace.
func RequireText(field, value string) *apperrors.ValidationError {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field, "The "+field+" field is required.")
	}
	return nil
}
