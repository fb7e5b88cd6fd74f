package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestLocalStore_StoreAndRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	content := []byte("%PDF-1.4 syllabus body")

	p, err := store.Store(ctx, bytes.NewReader(content), int64(len(content)), "syllabi", "1700000000_dbms.pdf")
	require.NoError(t, err)
	assert.Equal(t, "syllabi/1700000000_dbms.pdf", p)

	exists, err := store.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := store.Size(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	rc, err := store.Open(ctx, p)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	abs, err := store.ResolveAbsolutePath(p)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
	assert.Equal(t, filepath.Join(store.BasePath(), "syllabi", "1700000000_dbms.pdf"), abs)
}

func TestLocalStore_MissingPaths(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	exists, err := store.Exists(ctx, "syllabi/none.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Size(ctx, "syllabi/none.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Open(ctx, "syllabi/none.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, store.Delete(ctx, "syllabi/none.pdf"))
}

func TestLocalStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p, err := store.Store(ctx, strings.NewReader("x"), 1, "uploads/resources", "a.png")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, p))

	exists, err := store.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStore_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, p := range []string{"", "/etc/passwd", "../outside.txt", "syllabi/../../x"} {
		_, err := store.ResolveAbsolutePath(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
		_, err = store.Exists(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}

	// name is reduced to its base segment, so traversal in the name stays inside dir
	p, err := store.Store(ctx, strings.NewReader("x"), 1, "syllabi", "../../evil.pdf")
	require.NoError(t, err)
	assert.Equal(t, "syllabi/evil.pdf", p)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLocalStore_FailedStoreLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Store(ctx, failingReader{}, 10, "syllabi", "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	entries, err := os.ReadDir(filepath.Join(store.BasePath(), "syllabi"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateName(t *testing.T) {
	now := time.Unix(1700000000, 0)

	a := GenerateName("Data Structures (2024).pdf", now)
	b := GenerateName("Data Structures (2024).pdf", now)

	assert.True(t, strings.HasPrefix(a, "1700000000_"))
	assert.True(t, strings.HasSuffix(a, "_Data_Structures_2024_.pdf"))
	assert.NotEqual(t, a, b)
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"notes.pdf":           "notes.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\cv.pdf`:  "cv.pdf",
		"weird name!!.png":    "weird_name_.png",
		"...":                 "file",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}
