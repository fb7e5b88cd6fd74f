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

// ResourceRepository handles study resource database operations
type ResourceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ResourceRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"rs.id", "rs.semester_id", "rs.title", "rs.description", "rs.file_path",
		"rs.created_at", "rs.updated_at",
		"s.id", "s.name",
	).
		From("resources rs").
		Join("semesters s ON s.id = rs.semester_id")
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var res models.Resource
	var sem models.Semester
	if err := row.Scan(
		&res.ID, &res.SemesterID, &res.Title, &res.Description, &res.FilePath,
		&res.CreatedAt, &res.UpdatedAt,
		&sem.ID, &sem.Name,
	); err != nil {
		return nil, err
	}
	res.Semester = &sem
	return &res, nil
}

// List returns resources newest first, optionally scoped to one semester
func (r *ResourceRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Resource, error) {
	q := r.baseSelect().OrderBy("rs.created_at DESC", "rs.id DESC")
	if filter.SemesterID != nil {
		q = q.Where(squirrel.Eq{"rs.semester_id": *filter.SemesterID})
	}
	return r.query(ctx, q)
}

// Latest returns the newest resources
func (r *ResourceRepository) Latest(ctx context.Context, limit uint64) ([]models.Resource, error) {
	return r.query(ctx, r.baseSelect().OrderBy("rs.created_at DESC", "rs.id DESC").Limit(limit))
}

func (r *ResourceRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Resource, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list resources query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying resources")
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := []models.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}
	return resources, nil
}

// GetByID fetches a resource with its semester
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	query, args, err := r.baseSelect().Where(squirrel.Eq{"rs.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resource query: %w", err)
	}

	res, err := scanResource(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCatalogResourceNotFound
		}
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error fetching resource")
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return res, nil
}

// Create inserts a resource and fills in its id and timestamps
func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	query, args, err := r.sb.Insert("resources").
		Columns("semester_id", "title", "description", "file_path").
		Values(res.SemesterID, res.Title, res.Description, res.FilePath).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create resource query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSemesterNotFound
		}
		logger.Error().Err(err).Str("title", res.Title).Msg("Error creating resource")
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// Update writes the editable fields; with replaceFile it also swaps the file
// path and returns the path that was replaced.
func (r *ResourceRepository) Update(ctx context.Context, res *models.Resource, replaceFile bool) (*string, error) {
	var previous *string
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT file_path FROM resources WHERE id = $1 FOR UPDATE", res.ID).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCatalogResourceNotFound
			}
			return fmt.Errorf("failed to lock resource: %w", err)
		}

		set := map[string]interface{}{
			"semester_id": res.SemesterID,
			"title":       res.Title,
			"description": res.Description,
			"updated_at":  time.Now(),
		}
		if replaceFile {
			set["file_path"] = res.FilePath
		}

		query, args, err := r.sb.Update("resources").
			SetMap(set).
			Where(squirrel.Eq{"id": res.ID}).
			Suffix("RETURNING file_path, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update resource query: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&res.FilePath, &res.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrSemesterNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("resourceID", res.ID).Msg("Error updating resource")
		}
		return nil, err
	}

	if !replaceFile {
		return nil, nil
	}
	return previous, nil
}

// Delete removes a resource and returns its file path
func (r *ResourceRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var filePath *string
	err := r.db.QueryRow(ctx, "DELETE FROM resources WHERE id = $1 RETURNING file_path", id).Scan(&filePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCatalogResourceNotFound
		}
		logger.Error().Err(err).Int64("resourceID", id).Msg("Error deleting resource")
		return nil, fmt.Errorf("failed to delete resource: %w", err)
	}
	return filePath, nil
}

// Count returns the number of resources
func (r *ResourceRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb, "resources")
}
