package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/pkg/postgres"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	photosTable = "photos"

	// Columns
	idColumn            = "id"
	businessIDColumn    = "business_id"
	captionColumn       = "caption"
	contentTypeColumn   = "content_type"
	thumbIDColumn       = "thumb_id"
	thumbFailedAtColumn = "thumb_failed_at"
	createdAtColumn     = "created_at"
)

var photoColumns = []string{
	idColumn,
	businessIDColumn,
	captionColumn,
	contentTypeColumn,
	thumbIDColumn,
	createdAtColumn,
}

type PhotoRepo struct {
	*postgres.Postgres
}

func NewPhotoRepo(pg *postgres.Postgres) *PhotoRepo {
	return &PhotoRepo{pg}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *entity.Photo) error {
	sql, args, err := r.Builder.
		Insert(photosTable).
		Columns(
			idColumn,
			businessIDColumn,
			captionColumn,
			contentTypeColumn,
			createdAtColumn,
		).
		Values(
			photo.ID,
			photo.BusinessID,
			photo.Caption,
			photo.ContentType,
			photo.CreatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - Create - r.Builder.ToSql: %w", err)
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - Create - r.Pool.Exec: %w", err)
	}

	return nil
}

func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	sql, args, err := r.Builder.
		Select(photoColumns...).
		From(photosTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	photo, err := scanPhoto(r.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PhotoRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PhotoRepo - GetByID - r.Pool.QueryRow: %w", err)
	}

	return photo, nil
}

// SetThumbID links the thumbnail to the photo. Repeating it with the same value is a no-op.
func (r *PhotoRepo) SetThumbID(ctx context.Context, id, thumbID uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(thumbIDColumn, thumbID).
		Set(thumbFailedAtColumn, nil).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - SetThumbID - r.Builder.ToSql: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - SetThumbID - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoRepo - SetThumbID: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// MarkThumbnailFailed records that no thumbnail can be made from the stored original.
func (r *PhotoRepo) MarkThumbnailFailed(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(thumbFailedAtColumn, squirrel.Expr("now()")).
		Where(squirrel.Eq{idColumn: id, thumbIDColumn: nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - MarkThumbnailFailed - r.Builder.ToSql: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - MarkThumbnailFailed - r.Pool.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoRepo - MarkThumbnailFailed: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// ListMissingThumbnails returns the oldest photos without a thumbnail that have not failed for good.
func (r *PhotoRepo) ListMissingThumbnails(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Photo, error) {
	sql, args, err := missingThumbnailsQuery(r.Builder, createdBefore, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoRepo - ListMissingThumbnails - r.Builder.ToSql: %w", err)
	}

	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("PhotoRepo - ListMissingThumbnails - r.Pool.Query: %w", err)
	}
	defer rows.Close()

	photos := make([]*entity.Photo, 0, limit)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("PhotoRepo - ListMissingThumbnails - rows.Scan: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PhotoRepo - ListMissingThumbnails - rows.Err: %w", err)
	}

	return photos, nil
}

func missingThumbnailsQuery(b squirrel.StatementBuilderType, createdBefore time.Time, limit int) squirrel.SelectBuilder {
	return b.
		Select(photoColumns...).
		From(photosTable).
		Where(squirrel.And{
			squirrel.Eq{thumbIDColumn: nil},
			squirrel.Eq{thumbFailedAtColumn: nil},
			squirrel.Lt{createdAtColumn: createdBefore},
		}).
		OrderBy(createdAtColumn + " ASC").
		Limit(uint64(limit)) //nolint:gosec // limit comes from config
}

func scanPhoto(row pgx.Row) (*entity.Photo, error) {
	var photo entity.Photo

	err := row.Scan(
		&photo.ID,
		&photo.BusinessID,
		&photo.Caption,
		&photo.ContentType,
		&photo.ThumbID,
		&photo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &photo, nil
}
