package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

// LocalStore keeps blobs on the local filesystem below basePath.
type LocalStore struct {
	basePath string
	logger   zerolog.Logger
}

var _ BlobStore = (*LocalStore)(nil)

// NewLocalStore creates the root directory if needed.
func NewLocalStore(basePath string, logger zerolog.Logger) (*LocalStore, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory %s: %w", basePath, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", absPath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", absPath, err)
	}
	logger.Info().Str("path", absPath).Msg("Local storage directory ensured")

	return &LocalStore{basePath: absPath, logger: logger}, nil
}

// BasePath returns the absolute storage root
func (ls *LocalStore) BasePath() string {
	return ls.basePath
}

// Store writes content through a temporary file and renames it into place,
// so a failed copy never leaves a partial blob at the final path.
func (ls *LocalStore) Store(ctx context.Context, content io.Reader, _ int64, dir, name string) (string, error) {
	rel, err := joinRelative(dir, name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewStorageError("store", rel, err)
	}

	dstPath := ls.physical(rel)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return "", apperrors.NewStorageError("store", rel, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".upload-*")
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create temporary file")
		return "", apperrors.NewStorageError("store", rel, err)
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, content)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		err := errors.Join(copyErr, closeErr)
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", apperrors.NewStorageError("store", rel, err)
	}

	if err := os.Rename(tmpName, dstPath); err != nil {
		_ = os.Remove(tmpName)
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move uploaded file into place")
		return "", apperrors.NewStorageError("store", rel, err)
	}

	ls.logger.Debug().Str("path", rel).Int64("bytes", written).Msg("File stored")
	return rel, nil
}

func (ls *LocalStore) Exists(_ context.Context, p string) (bool, error) {
	rel, err := cleanRelative(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(ls.physical(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStorageError("stat", rel, err)
	}
	return !info.IsDir(), nil
}

func (ls *LocalStore) Size(_ context.Context, p string) (int64, error) {
	rel, err := cleanRelative(p)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(ls.physical(rel))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return 0, apperrors.NewStorageError("stat", rel, err)
	}
	return info.Size(), nil
}

// Delete removes the blob; a missing file counts as deleted.
func (ls *LocalStore) Delete(_ context.Context, p string) error {
	rel, err := cleanRelative(p)
	if err != nil {
		return err
	}
	physicalPath := ls.physical(rel)

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ls.logger.Warn().Str("path", rel).Msg("File to delete does not exist")
			return nil
		}
		ls.logger.Error().Err(err).Str("path", rel).Msg("Failed to delete file")
		return apperrors.NewStorageError("delete", rel, err)
	}

	ls.logger.Debug().Str("path", rel).Msg("File deleted")
	return nil
}

func (ls *LocalStore) ResolveAbsolutePath(p string) (string, error) {
	rel, err := cleanRelative(p)
	if err != nil {
		return "", err
	}
	return ls.physical(rel), nil
}

func (ls *LocalStore) Open(_ context.Context, p string) (io.ReadCloser, error) {
	rel, err := cleanRelative(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(ls.physical(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("open", rel, err)
	}
	return f, nil
}

func (ls *LocalStore) physical(rel string) string {
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}
