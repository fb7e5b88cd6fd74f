package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/logger"
)

// SemesterRepository handles semester database operations
type SemesterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSemesterRepository creates a new SemesterRepository
func NewSemesterRepository(db *pgxpool.Pool) *SemesterRepository {
	return &SemesterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListWithCounts returns every semester ordered by id with its content counts
func (r *SemesterRepository) ListWithCounts(ctx context.Context) ([]models.SemesterWithCounts, error) {
	query, args, err := r.sb.Select(
		"s.id", "s.name", "s.created_at", "s.updated_at",
		"(SELECT COUNT(*) FROM syllabi sy WHERE sy.semester_id = s.id) AS syllabi_count",
		"(SELECT COUNT(*) FROM question_papers qp WHERE qp.semester_id = s.id) AS question_papers_count",
		"(SELECT COUNT(*) FROM resources rs WHERE rs.semester_id = s.id) AS resources_count",
	).
		From("semesters s").
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list semesters query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying semesters")
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}
	defer rows.Close()

	semesters := []models.SemesterWithCounts{}
	for rows.Next() {
		var s models.SemesterWithCounts
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt,
			&s.SyllabiCount, &s.QuestionPapersCount, &s.ResourcesCount); err != nil {
			return nil, fmt.Errorf("failed to scan semester: %w", err)
		}
		semesters = append(semesters, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating semesters: %w", err)
	}

	return semesters, nil
}

// GetByID fetches one semester
func (r *SemesterRepository) GetByID(ctx context.Context, id int64) (*models.Semester, error) {
	query, args, err := r.sb.Select("id", "name", "created_at", "updated_at").
		From("semesters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get semester query: %w", err)
	}

	var s models.Semester
	err = r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSemesterNotFound
		}
		logger.Error().Err(err).Int64("semesterID", id).Msg("Error fetching semester")
		return nil, fmt.Errorf("failed to get semester: %w", err)
	}
	return &s, nil
}

// Exists reports whether a semester with the given id exists
func (r *SemesterRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM semesters WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check semester existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of semesters
func (r *SemesterRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb, "semesters")
}

// EnsureNames inserts any missing semester names, keeping existing rows untouched.
// Returns the number of rows created.
func (r *SemesterRepository) EnsureNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	insert := r.sb.Insert("semesters").Columns("name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	query, args, err := insert.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build seed semesters query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to seed semesters: %w", err)
	}
	return tag.RowsAffected(), nil
}

// countRows runs SELECT COUNT(*) against a table
func countRows(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string) (int64, error) {
	query, args, err := sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error counting rows")
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
