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

// QuestionPaperRepository handles question paper database operations
type QuestionPaperRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionPaperRepository creates a new QuestionPaperRepository
func NewQuestionPaperRepository(db *pgxpool.Pool) *QuestionPaperRepository {
	return &QuestionPaperRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *QuestionPaperRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"qp.id", "qp.semester_id", "qp.course", "qp.year",
		"qp.file_path", "qp.file_name",
		"qp.created_at", "qp.updated_at",
		"s.id", "s.name",
	).
		From("question_papers qp").
		Join("semesters s ON s.id = qp.semester_id")
}

func scanQuestionPaper(row pgx.Row) (*models.QuestionPaper, error) {
	var qp models.QuestionPaper
	var sem models.Semester
	if err := row.Scan(
		&qp.ID, &qp.SemesterID, &qp.Course, &qp.Year,
		&qp.FilePath, &qp.FileName,
		&qp.CreatedAt, &qp.UpdatedAt,
		&sem.ID, &sem.Name,
	); err != nil {
		return nil, err
	}
	qp.Semester = &sem
	return &qp, nil
}

// List returns question papers ordered by year (newest first) then course
func (r *QuestionPaperRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.QuestionPaper, error) {
	q := r.baseSelect().OrderBy("qp.year DESC", "qp.course ASC", "qp.id ASC")
	if filter.SemesterID != nil {
		q = q.Where(squirrel.Eq{"qp.semester_id": *filter.SemesterID})
	}
	return r.query(ctx, q)
}

// Latest returns the newest question papers by year
func (r *QuestionPaperRepository) Latest(ctx context.Context, limit uint64) ([]models.QuestionPaper, error) {
	return r.query(ctx, r.baseSelect().OrderBy("qp.year DESC", "qp.id DESC").Limit(limit))
}

func (r *QuestionPaperRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.QuestionPaper, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list question papers query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying question papers")
		return nil, fmt.Errorf("failed to list question papers: %w", err)
	}
	defer rows.Close()

	papers := []models.QuestionPaper{}
	for rows.Next() {
		qp, err := scanQuestionPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question paper: %w", err)
		}
		papers = append(papers, *qp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question papers: %w", err)
	}
	return papers, nil
}

// GetByID fetches a question paper with its semester
func (r *QuestionPaperRepository) GetByID(ctx context.Context, id int64) (*models.QuestionPaper, error) {
	query, args, err := r.baseSelect().Where(squirrel.Eq{"qp.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question paper query: %w", err)
	}

	qp, err := scanQuestionPaper(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionPaperNotFound
		}
		logger.Error().Err(err).Int64("questionPaperID", id).Msg("Error fetching question paper")
		return nil, fmt.Errorf("failed to get question paper: %w", err)
	}
	return qp, nil
}

// Create inserts a question paper and fills in its id and timestamps
func (r *QuestionPaperRepository) Create(ctx context.Context, qp *models.QuestionPaper) error {
	query, args, err := r.sb.Insert("question_papers").
		Columns("semester_id", "course", "year", "file_path", "file_name").
		Values(qp.SemesterID, qp.Course, qp.Year, qp.FilePath, qp.FileName).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create question paper query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&qp.ID, &qp.CreatedAt, &qp.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSemesterNotFound
		}
		logger.Error().Err(err).Str("course", qp.Course).Int("year", qp.Year).Msg("Error creating question paper")
		return fmt.Errorf("failed to create question paper: %w", err)
	}
	return nil
}

// Update writes the editable fields; with replaceFile it also swaps the file
// path and returns the path that was replaced.
func (r *QuestionPaperRepository) Update(ctx context.Context, qp *models.QuestionPaper, replaceFile bool) (*string, error) {
	var previous string
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT file_path FROM question_papers WHERE id = $1 FOR UPDATE", qp.ID).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrQuestionPaperNotFound
			}
			return fmt.Errorf("failed to lock question paper: %w", err)
		}

		set := map[string]interface{}{
			"semester_id": qp.SemesterID,
			"course":      qp.Course,
			"year":        qp.Year,
			"file_name":   qp.FileName,
			"updated_at":  time.Now(),
		}
		if replaceFile {
			set["file_path"] = qp.FilePath
		}

		query, args, err := r.sb.Update("question_papers").
			SetMap(set).
			Where(squirrel.Eq{"id": qp.ID}).
			Suffix("RETURNING file_path, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update question paper query: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&qp.FilePath, &qp.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrSemesterNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("questionPaperID", qp.ID).Msg("Error updating question paper")
		}
		return nil, err
	}

	if !replaceFile {
		return nil, nil
	}
	return &previous, nil
}

// Delete removes a question paper and returns its file path
func (r *QuestionPaperRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var filePath string
	err := r.db.QueryRow(ctx, "DELETE FROM question_papers WHERE id = $1 RETURNING file_path", id).Scan(&filePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionPaperNotFound
		}
		logger.Error().Err(err).Int64("questionPaperID", id).Msg("Error deleting question paper")
		return nil, fmt.Errorf("failed to delete question paper: %w", err)
	}
	return &filePath, nil
}

// Count returns the number of question papers
func (r *QuestionPaperRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb, "question_papers")
}
