package blobstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Call struct {
	method string
	path   string
	query  url.Values
	length int64
}

// fakeS3 answers the few bucket and object calls MinioStore makes and
// records every request it sees.
type fakeS3 struct {
	mu    sync.Mutex
	calls []s3Call
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	length := int64(len(body))
	if decoded := r.Header.Get("X-Amz-Decoded-Content-Length"); decoded != "" {
		length, _ = strconv.ParseInt(decoded, 10, 64)
	}

	f.mu.Lock()
	f.calls = append(f.calls, s3Call{method: r.Method, path: r.URL.Path, query: r.URL.Query(), length: length})
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeS3) uploads() []s3Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []s3Call
	for _, c := range f.calls {
		if c.method == http.MethodPut || c.method == http.MethodPost {
			out = append(out, c)
		}
	}
	return out
}

func newFakeMinio(t *testing.T) (*MinioStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	store, err := NewMinioStore(context.Background(), MinioConfig{
		Endpoint:  u.Host,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "semesterhub",
	}, zerolog.Nop())
	require.NoError(t, err)
	return store, fake
}

func TestMinioStore_StoreSendsKnownSize(t *testing.T) {
	store, fake := newFakeMinio(t)
	content := bytes.Repeat([]byte("a"), 256*1024)

	p, err := store.Store(context.Background(), bytes.NewReader(content), int64(len(content)), "syllabi", "1700000000_dbms.pdf")
	require.NoError(t, err)
	assert.Equal(t, "syllabi/1700000000_dbms.pdf", p)

	uploads := fake.uploads()
	require.Len(t, uploads, 1, "a small object must go up as one PUT, not a multipart upload")
	assert.Equal(t, http.MethodPut, uploads[0].method)
	assert.Equal(t, "/semesterhub/syllabi/1700000000_dbms.pdf", uploads[0].path)
	assert.False(t, uploads[0].query.Has("uploadId"))
	assert.Equal(t, int64(len(content)), uploads[0].length)
}

func TestMinioStore_StoreRejectsUnknownSize(t *testing.T) {
	store, fake := newFakeMinio(t)

	_, err := store.Store(context.Background(), bytes.NewReader([]byte("x")), -1, "syllabi", "a.pdf")
	require.Error(t, err)
	assert.Empty(t, fake.uploads())
}
