package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a path does not exist in the store.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidPath is returned for empty, absolute, or root-escaping paths.
	ErrInvalidPath = errors.New("invalid blob path")
	// ErrNotSupported is returned by backends without a local filesystem.
	ErrNotSupported = errors.New("operation not supported by this blob store")
)

// BlobStore stores uploaded files under relative paths. Stored paths never
// carry the backend root, so they can be persisted as-is.
type BlobStore interface {
	// Store writes size bytes of content to dir/name and returns the relative
	// path. An existing file at the same path is replaced; callers generate
	// unique names.
	Store(ctx context.Context, content io.Reader, size int64, dir, name string) (string, error)

	Exists(ctx context.Context, p string) (bool, error)

	// Size fails with ErrNotFound if the path is absent.
	Size(ctx context.Context, p string) (int64, error)

	// Delete is a no-op when the path is absent.
	Delete(ctx context.Context, p string) error

	// ResolveAbsolutePath returns the filesystem path backing p.
	ResolveAbsolutePath(p string) (string, error)

	// Open returns a reader over the stored content; ErrNotFound if absent.
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName reduces an uploaded file name to a safe single path segment.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 150 {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:150-len(ext)] + ext
	}
	return name
}

// GenerateName builds a collision-resistant stored name:
// <unix seconds>_<8 hex chars>_<sanitized original>.
func GenerateName(original string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(now.Unix(), 10) + "_" + token + "_" + SanitizeFileName(original)
}

// cleanRelative normalizes a stored path and rejects anything that could
// escape the store root.
func cleanRelative(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}

// joinRelative joins a logical directory and a file name into a clean relative path.
func joinRelative(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty file name", ErrInvalidPath)
	}
	return cleanRelative(path.Join(dir, filepath.Base(name)))
}
