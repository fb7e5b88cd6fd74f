package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/db"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/dberrors"
	"github.com/yigit/semesterhub/internal/pkg/logger"
)

// SyllabusRepository handles syllabus database operations
type SyllabusRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSyllabusRepository creates a new SyllabusRepository
func NewSyllabusRepository(db *pgxpool.Pool) *SyllabusRepository {
	return &SyllabusRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SyllabusRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"sy.id", "sy.semester_id", "sy.course", "sy.description",
		"sy.file_path", "sy.file_name", "sy.file_size",
		"sy.created_at", "sy.updated_at",
		"s.id", "s.name",
	).
		From("syllabi sy").
		Join("semesters s ON s.id = sy.semester_id")
}

func scanSyllabus(row pgx.Row) (*models.Syllabus, error) {
	var sy models.Syllabus
	var sem models.Semester
	if err := row.Scan(
		&sy.ID, &sy.SemesterID, &sy.Course, &sy.Description,
		&sy.FilePath, &sy.FileName, &sy.FileSize,
		&sy.CreatedAt, &sy.UpdatedAt,
		&sem.ID, &sem.Name,
	); err != nil {
		return nil, err
	}
	sy.Semester = &sem
	return &sy, nil
}

// List returns syllabi ordered by course, optionally scoped to one semester
func (r *SyllabusRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Syllabus, error) {
	q := r.baseSelect().OrderBy("sy.course ASC", "sy.id ASC")
	if filter.SemesterID != nil {
		q = q.Where(squirrel.Eq{"sy.semester_id": *filter.SemesterID})
	}
	return r.query(ctx, q)
}

// Latest returns the most recently updated syllabi
func (r *SyllabusRepository) Latest(ctx context.Context, limit uint64) ([]models.Syllabus, error) {
	return r.query(ctx, r.baseSelect().OrderBy("sy.updated_at DESC", "sy.id DESC").Limit(limit))
}

func (r *SyllabusRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Syllabus, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list syllabi query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying syllabi")
		return nil, fmt.Errorf("failed to list syllabi: %w", err)
	}
	defer rows.Close()

	syllabi := []models.Syllabus{}
	for rows.Next() {
		sy, err := scanSyllabus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan syllabus: %w", err)
		}
		syllabi = append(syllabi, *sy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating syllabi: %w", err)
	}
	return syllabi, nil
}

// GetByID fetches a syllabus with its semester
func (r *SyllabusRepository) GetByID(ctx context.Context, id int64) (*models.Syllabus, error) {
	query, args, err := r.baseSelect().Where(squirrel.Eq{"sy.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get syllabus query: %w", err)
	}

	sy, err := scanSyllabus(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSyllabusNotFound
		}
		logger.Error().Err(err).Int64("syllabusID", id).Msg("Error fetching syllabus")
		return nil, fmt.Errorf("failed to get syllabus: %w", err)
	}
	return sy, nil
}

// Create inserts a syllabus and fills in its id and timestamps
func (r *SyllabusRepository) Create(ctx context.Context, sy *models.Syllabus) error {
	query, args, err := r.sb.Insert("syllabi").
		Columns("semester_id", "course", "description", "file_path", "file_name", "file_size").
		Values(sy.SemesterID, sy.Course, sy.Description, sy.FilePath, sy.FileName, sy.FileSize).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create syllabus query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&sy.ID, &sy.CreatedAt, &sy.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSemesterNotFound
		}
		logger.Error().Err(err).Str("course", sy.Course).Msg("Error creating syllabus")
		return fmt.Errorf("failed to create syllabus: %w", err)
	}
	return nil
}

// Update writes the editable fields of sy. When replaceFile is set the file
// columns are written too and the path they replaced is returned; the old
// path is read under a row lock in the same transaction.
func (r *SyllabusRepository) Update(ctx context.Context, sy *models.Syllabus, replaceFile bool) (*string, error) {
	var previous *string
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT file_path FROM syllabi WHERE id = $1 FOR UPDATE", sy.ID).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrSyllabusNotFound
			}
			return fmt.Errorf("failed to lock syllabus: %w", err)
		}

		set := map[string]interface{}{
			"semester_id": sy.SemesterID,
			"course":      sy.Course,
			"description": sy.Description,
			"file_name":   sy.FileName,
			"updated_at":  time.Now(),
		}
		if replaceFile {
			set["file_path"] = sy.FilePath
			set["file_size"] = sy.FileSize
		}

		query, args, err := r.sb.Update("syllabi").
			SetMap(set).
			Where(squirrel.Eq{"id": sy.ID}).
			Suffix("RETURNING file_path, file_size, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update syllabus query: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&sy.FilePath, &sy.FileSize, &sy.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrSemesterNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("syllabusID", sy.ID).Msg("Error updating syllabus")
		}
		return nil, err
	}

	if !replaceFile {
		return nil, nil
	}
	return previous, nil
}

// Delete removes a syllabus and returns the file path it referenced
func (r *SyllabusRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var filePath *string
	err := r.db.QueryRow(ctx, "DELETE FROM syllabi WHERE id = $1 RETURNING file_path", id).Scan(&filePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSyllabusNotFound
		}
		logger.Error().Err(err).Int64("syllabusID", id).Msg("Error deleting syllabus")
		return nil, fmt.Errorf("failed to delete syllabus: %w", err)
	}
	return filePath, nil
}

// Count returns the number of syllabi
func (r *SyllabusRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb, "syllabi")
}
