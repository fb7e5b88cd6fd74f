package services

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/auth"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/blobstore"
)

var (
	admin   = &models.Principal{UserID: 1, Email: "admin@example.com", Role: models.RoleSuperAdmin}
	student = &models.Principal{UserID: 2, Email: "student@example.com", Role: models.RoleUser}
)

// pdfBytes returns n bytes that sniff as a PDF
func pdfBytes(n int, fill byte) []byte {
	header := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	if n < len(header) {
		n = len(header)
	}
	out := bytes.Repeat([]byte{fill}, n)
	copy(out, header)
	return out
}

func pdfUpload(name string, content []byte) *models.Upload {
	return &models.Upload{Filename: name, Size: int64(len(content)), Content: bytes.NewReader(content)}
}

func newTestStore(t *testing.T) *blobstore.LocalStore {
	t.Helper()
	store, err := blobstore.NewLocalStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

// storedFiles lists every blob below the store root
func storedFiles(t *testing.T, store *blobstore.LocalStore) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(store.BasePath(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(store.BasePath(), p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func trustedAuthz() *auth.AuthorizationService {
	return auth.NewAuthorizationService(nil)
}

// --- semesters ---

type memSemesters struct {
	byID map[int64]*models.Semester
}

func newMemSemesters(names ...string) *memSemesters {
	m := &memSemesters{byID: map[int64]*models.Semester{}}
	for i, n := range names {
		id := int64(i + 1)
		m.byID[id] = &models.Semester{ID: id, Name: n}
	}
	return m
}

func (m *memSemesters) ListWithCounts(context.Context) ([]models.SemesterWithCounts, error) {
	out := make([]models.SemesterWithCounts, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, models.SemesterWithCounts{Semester: *s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSemesters) GetByID(_ context.Context, id int64) (*models.Semester, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrSemesterNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSemesters) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memSemesters) Count(context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

// --- syllabi ---

type memSyllabi struct {
	mu        sync.Mutex
	rows      map[int64]models.Syllabus
	nextID    int64
	semesters *memSemesters
	createErr error
	updateErr error
}

func newMemSyllabi(semesters *memSemesters) *memSyllabi {
	return &memSyllabi{rows: map[int64]models.Syllabus{}, semesters: semesters}
}

func (m *memSyllabi) withSemester(sy models.Syllabus) models.Syllabus {
	if s, ok := m.semesters.byID[sy.SemesterID]; ok {
		cp := *s
		sy.Semester = &cp
	}
	return sy
}

func (m *memSyllabi) List(_ context.Context, filter models.ContentFilter) ([]models.Syllabus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Syllabus{}
	for _, sy := range m.rows {
		if filter.SemesterID != nil && sy.SemesterID != *filter.SemesterID {
			continue
		}
		out = append(out, m.withSemester(sy))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Course < out[j].Course })
	return out, nil
}

func (m *memSyllabi) Latest(_ context.Context, limit uint64) ([]models.Syllabus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Syllabus{}
	for _, sy := range m.rows {
		out = append(out, m.withSemester(sy))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSyllabi) GetByID(_ context.Context, id int64) (*models.Syllabus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sy, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrSyllabusNotFound
	}
	sy = m.withSemester(sy)
	return &sy, nil
}

func (m *memSyllabi) Create(_ context.Context, sy *models.Syllabus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.semesters.byID[sy.SemesterID]; !ok {
		return apperrors.ErrSemesterNotFound
	}
	m.nextID++
	sy.ID = m.nextID
	sy.CreatedAt = time.Now()
	sy.UpdatedAt = sy.CreatedAt
	m.rows[sy.ID] = *sy
	return nil
}

func (m *memSyllabi) Update(_ context.Context, sy *models.Syllabus, replaceFile bool) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	current, ok := m.rows[sy.ID]
	if !ok {
		return nil, apperrors.ErrSyllabusNotFound
	}

	var previous *string
	current.SemesterID = sy.SemesterID
	current.Course = sy.Course
	current.Description = sy.Description
	current.FileName = sy.FileName
	if replaceFile {
		previous = current.FilePath
		current.FilePath = sy.FilePath
		current.FileSize = sy.FileSize
	}
	current.UpdatedAt = time.Now()
	m.rows[sy.ID] = current
	return previous, nil
}

func (m *memSyllabi) Delete(_ context.Context, id int64) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sy, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrSyllabusNotFound
	}
	delete(m.rows, id)
	return sy.FilePath, nil
}

func (m *memSyllabi) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

// --- question papers ---

type memPapers struct {
	mu        sync.Mutex
	rows      map[int64]models.QuestionPaper
	nextID    int64
	semesters *memSemesters
}

func newMemPapers(semesters *memSemesters) *memPapers {
	return &memPapers{rows: map[int64]models.QuestionPaper{}, semesters: semesters}
}

func (m *memPapers) List(_ context.Context, filter models.ContentFilter) ([]models.QuestionPaper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.QuestionPaper{}
	for _, qp := range m.rows {
		if filter.SemesterID != nil && qp.SemesterID != *filter.SemesterID {
			continue
		}
		out = append(out, qp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Course < out[j].Course
	})
	return out, nil
}

func (m *memPapers) Latest(ctx context.Context, limit uint64) ([]models.QuestionPaper, error) {
	out, _ := m.List(ctx, models.ContentFilter{})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPapers) GetByID(_ context.Context, id int64) (*models.QuestionPaper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qp, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrQuestionPaperNotFound
	}
	return &qp, nil
}

func (m *memPapers) Create(_ context.Context, qp *models.QuestionPaper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.semesters.byID[qp.SemesterID]; !ok {
		return apperrors.ErrSemesterNotFound
	}
	m.nextID++
	qp.ID = m.nextID
	m.rows[qp.ID] = *qp
	return nil
}

func (m *memPapers) Update(_ context.Context, qp *models.QuestionPaper, replaceFile bool) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[qp.ID]
	if !ok {
		return nil, apperrors.ErrQuestionPaperNotFound
	}
	var previous *string
	current.SemesterID = qp.SemesterID
	current.Course = qp.Course
	current.Year = qp.Year
	current.FileName = qp.FileName
	if replaceFile {
		old := current.FilePath
		previous = &old
		current.FilePath = qp.FilePath
	}
	m.rows[qp.ID] = current
	return previous, nil
}

func (m *memPapers) Delete(_ context.Context, id int64) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qp, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrQuestionPaperNotFound
	}
	delete(m.rows, id)
	return &qp.FilePath, nil
}

func (m *memPapers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

// --- resources ---

type memResources struct {
	mu        sync.Mutex
	rows      map[int64]models.Resource
	nextID    int64
	semesters *memSemesters
	clock     time.Time
}

func newMemResources(semesters *memSemesters) *memResources {
	return &memResources{rows: map[int64]models.Resource{}, semesters: semesters, clock: time.Unix(1700000000, 0)}
}

func (m *memResources) List(_ context.Context, filter models.ContentFilter) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Resource{}
	for _, r := range m.rows {
		if filter.SemesterID != nil && r.SemesterID != *filter.SemesterID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memResources) Latest(ctx context.Context, limit uint64) ([]models.Resource, error) {
	out, _ := m.List(ctx, models.ContentFilter{})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memResources) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrCatalogResourceNotFound
	}
	return &r, nil
}

func (m *memResources) Create(_ context.Context, r *models.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.semesters.byID[r.SemesterID]; !ok {
		return apperrors.ErrSemesterNotFound
	}
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	r.ID = m.nextID
	r.CreatedAt = m.clock
	r.UpdatedAt = m.clock
	m.rows[r.ID] = *r
	return nil
}

func (m *memResources) Update(_ context.Context, r *models.Resource, replaceFile bool) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[r.ID]
	if !ok {
		return nil, apperrors.ErrCatalogResourceNotFound
	}
	var previous *string
	current.SemesterID = r.SemesterID
	current.Title = r.Title
	current.Description = r.Description
	if replaceFile {
		previous = current.FilePath
		current.FilePath = r.FilePath
	}
	m.rows[r.ID] = current
	return previous, nil
}

func (m *memResources) Delete(_ context.Context, id int64) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrCatalogResourceNotFound
	}
	delete(m.rows, id)
	return r.FilePath, nil
}

func (m *memResources) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

// --- users ---

type memUsers struct {
	mu     sync.Mutex
	rows   map[int64]models.User
	nextID int64
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{rows: map[int64]models.User{}}
	for _, u := range users {
		m.rows[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memUsers) List(_ context.Context, offset uint64, limit int) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.User, 0, len(m.rows))
	for _, u := range m.rows {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []models.User{}, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) emailTaken(email string, except int64) bool {
	for _, u := range m.rows {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(u.Email, 0) {
		return apperrors.ErrEmailAlreadyExists
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if m.emailTaken(u.Email, u.ID) {
		return apperrors.ErrEmailAlreadyExists
	}
	current.Name = u.Name
	current.Email = u.Email
	current.Role = u.Role
	if u.Password != "" {
		current.Password = u.Password
	}
	m.rows[u.ID] = current
	*u = current
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}
