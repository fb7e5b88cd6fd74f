package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
	"github.com/yigit/semesterhub/internal/pkg/helpers"
	"github.com/yigit/semesterhub/internal/pkg/validation"
)

// Download describes a stored file ready to be streamed to a client.
// Exactly one of LocalPath and Content is set; callers must close Content.
type Download struct {
	LocalPath   string
	Content     io.ReadCloser
	FileName    string
	Size        int64
	ContentType string
}

// SemesterChecker reports whether a semester id exists
type SemesterChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// contentFiles couples catalog rows with their blobs: storing uploads,
// discarding replaced files and opening downloads.
type contentFiles struct {
	store  blobstore.BlobStore
	logger zerolog.Logger
	now    func() time.Time
}

func newContentFiles(store blobstore.BlobStore, logger zerolog.Logger) contentFiles {
	return contentFiles{store: store, logger: logger, now: time.Now}
}

// save writes the upload under dir with a generated name and returns its path
// and size.
func (f contentFiles) save(ctx context.Context, dir string, upload *models.Upload) (string, int64, error) {
	name := blobstore.GenerateName(upload.Filename, f.now())
	p, err := f.store.Store(ctx, upload.Content, upload.Size, dir, name)
	if err != nil {
		return "", 0, fmt.Errorf("failed to store upload: %w", err)
	}
	return p, upload.Size, nil
}

// discard deletes p, logging instead of failing; the row change it follows
// has already been committed.
func (f contentFiles) discard(ctx context.Context, p *string, reason string) {
	if p == nil || *p == "" {
		return
	}
	if err := f.store.Delete(ctx, *p); err != nil {
		f.logger.Warn().Err(err).Str("path", *p).Str("reason", reason).Msg("Failed to delete stored file")
	}
}

// open resolves p into a Download, checking that the blob still exists.
func (f contentFiles) open(ctx context.Context, p *string, fileName string) (*Download, error) {
	if p == nil || *p == "" {
		return nil, apperrors.ErrFileNotFound
	}

	exists, err := f.store.Exists(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("failed to check stored file: %w", err)
	}
	if !exists {
		f.logger.Warn().Str("path", *p).Msg("Stored file referenced by a record is missing")
		return nil, apperrors.ErrFileNotFound
	}

	size, err := f.store.Size(ctx, *p)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to stat stored file: %w", err)
	}

	d := &Download{
		FileName:    fileName,
		Size:        size,
		ContentType: contentTypeFor(*p),
	}

	local, err := f.store.ResolveAbsolutePath(*p)
	switch {
	case err == nil:
		d.LocalPath = local
		return d, nil
	case !errors.Is(err, blobstore.ErrNotSupported):
		return nil, fmt.Errorf("failed to resolve stored file: %w", err)
	}

	rc, err := f.store.Open(ctx, *p)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	d.Content = rc
	return d, nil
}

func contentTypeFor(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// semesterMustExist turns an unknown semester id into a field error.
func semesterMustExist(ctx context.Context, semesters SemesterChecker, id int64) error {
	ok, err := semesters.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check semester: %w", err)
	}
	if !ok {
		return invalidSemester()
	}
	return nil
}

// checkUpload validates an optional upload against rule.
func checkUpload(rule validation.FileRule, upload *models.Upload, required bool) *apperrors.ValidationError {
	if upload == nil {
		if required {
			return apperrors.NewValidationError(rule.Field, "The "+rule.Field+" field is required.")
		}
		return nil
	}
	_, verr := rule.Check(upload.Size, upload.Content)
	return verr
}

func invalidSemester() *apperrors.ValidationError {
	return apperrors.NewValidationError("semester_id", "The selected semester id is invalid.")
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	return helpers.StringPtr(*s)
}
