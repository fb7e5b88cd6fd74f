package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/app/services"
	"github.com/yigit/semesterhub/internal/middleware"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSyllabi records what the controller passes down and answers with canned values
type stubSyllabi struct {
	services.SyllabusService

	gotPrincipal *models.Principal
	gotInput     dto.SyllabusInput
	gotFile      []byte
	gotUpload    bool
	createErr    error
	download     *services.Download
}

func (s *stubSyllabi) Create(_ context.Context, p *models.Principal, input dto.SyllabusInput, upload *models.Upload) (*models.Syllabus, error) {
	s.gotPrincipal = p
	s.gotInput = input
	s.gotUpload = upload != nil
	if upload != nil {
		s.gotFile, _ = io.ReadAll(upload.Content)
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	path := "syllabi/1700000000_abcd1234_dbms.pdf"
	size := int64(len(s.gotFile))
	return &models.Syllabus{
		ID:         9,
		SemesterID: input.SemesterID,
		Course:     input.Course,
		FilePath:   &path,
		FileName:   &input.FileName,
		FileSize:   &size,
		Semester:   &models.Semester{ID: input.SemesterID, Name: "Third Semester"},
	}, nil
}

func (s *stubSyllabi) Get(_ context.Context, id int64) (*models.Syllabus, error) {
	return nil, apperrors.ErrSyllabusNotFound
}

func (s *stubSyllabi) Download(_ context.Context, id int64) (*services.Download, error) {
	if s.download == nil {
		return nil, apperrors.ErrFileNotFound
	}
	return s.download, nil
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "semesterhub-test"})
}

func syllabusRouter(svc services.SyllabusService) (*gin.Engine, *auth.JWTService) {
	jwtService := newTestJWT()
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	c := NewSyllabusController(svc, zerolog.Nop())

	router := gin.New()
	router.GET("/syllabi/:id", c.Get)
	router.GET("/syllabi/:id/download", c.Download)
	router.POST("/syllabi", authMiddleware.OptionalAuth(), c.Create)
	return router, jwtService
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("file", "dbms.pdf")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSyllabusController_Create(t *testing.T) {
	svc := &stubSyllabi{}
	router, jwtService := syllabusRouter(svc)
	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 1, Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4\nsyllabus body")
	body, contentType := multipartBody(t, map[string]string{
		"semester_id": "3",
		"course":      "Database Management Systems",
		"file_name":   "DBMS Syllabus 2024",
	}, pdf)

	req := httptest.NewRequest(http.MethodPost, "/syllabi", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(3), svc.gotInput.SemesterID)
	assert.Equal(t, "Database Management Systems", svc.gotInput.Course)
	assert.Equal(t, pdf, svc.gotFile)
	require.NotNil(t, svc.gotPrincipal)
	assert.Equal(t, int64(1), svc.gotPrincipal.UserID)

	var resp struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Data    dto.SyllabusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Syllabus uploaded successfully", resp.Message)
	assert.Equal(t, "/api/v1/syllabi/9/download", resp.Data.DownloadURL)
	assert.Equal(t, "DBMS Syllabus 2024", resp.Data.FileName)
	require.NotNil(t, resp.Data.Semester)
	assert.Equal(t, "Third Semester", resp.Data.Semester.Name)
}

func TestSyllabusController_CreateErrors(t *testing.T) {
	t.Run("service validation error", func(t *testing.T) {
		svc := &stubSyllabi{createErr: apperrors.NewValidationError("file", "The file field is required.")}
		router, _ := syllabusRouter(svc)

		body, contentType := multipartBody(t, map[string]string{"semester_id": "1", "course": "Physics", "file_name": "x"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/syllabi", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, svc.gotUpload, "no file part means a nil upload")
		assert.Nil(t, svc.gotPrincipal)
	})

	t.Run("malformed semester id", func(t *testing.T) {
		svc := &stubSyllabi{}
		router, _ := syllabusRouter(svc)

		body, contentType := multipartBody(t, map[string]string{"semester_id": "third", "course": "Physics"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/syllabi", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &stubSyllabi{createErr: apperrors.NewForbiddenError("only administrators can manage content")}
		router, _ := syllabusRouter(svc)

		body, contentType := multipartBody(t, map[string]string{"semester_id": "1", "course": "Physics", "file_name": "x"}, []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/syllabi", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSyllabusController_Download(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "1700000000_abcd1234_dbms.pdf")
	require.NoError(t, os.WriteFile(local, []byte("%PDF-1.4 local"), 0o644))

	t.Run("local file", func(t *testing.T) {
		router, _ := syllabusRouter(&stubSyllabi{download: &services.Download{
			LocalPath: local, FileName: "DBMS Syllabus.pdf", Size: 14, ContentType: "application/pdf",
		}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/syllabi/9/download", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "DBMS Syllabus.pdf")
		assert.Equal(t, "%PDF-1.4 local", w.Body.String())
	})

	t.Run("streamed blob", func(t *testing.T) {
		content := "%PDF-1.4 remote"
		router, _ := syllabusRouter(&stubSyllabi{download: &services.Download{
			Content: io.NopCloser(strings.NewReader(content)), FileName: "remote.pdf", Size: int64(len(content)), ContentType: "application/pdf",
		}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/syllabi/9/download", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=remote.pdf", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, content, w.Body.String())
	})

	t.Run("streamed blob with unsafe name", func(t *testing.T) {
		for _, name := range []string{`DBMS "final".pdf`, "Çizge Kuramı.pdf", `a\b;c=d.pdf`} {
			router, _ := syllabusRouter(&stubSyllabi{download: &services.Download{
				Content: io.NopCloser(strings.NewReader("x")), FileName: name, Size: 1, ContentType: "application/pdf",
			}})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/syllabi/9/download", nil))

			require.Equal(t, http.StatusOK, w.Code, name)
			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			require.NoError(t, err, name)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, name, params["filename"])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		router, _ := syllabusRouter(&stubSyllabi{})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/syllabi/9/download", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSyllabusController_GetInvalidID(t *testing.T) {
	router, _ := syllabusRouter(&stubSyllabi{})

	for _, path := range []string{"/syllabi/abc", "/syllabi/0", "/syllabi/5"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
