package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

const imageColumns = `id, title, category, image_url, public_id, original_name, uploaded_at`

// execer runs a single statement without retrying it.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// INSERT and DELETE go through writer exactly once. A retried statement
// after a lost commit acknowledgement would report a duplicate or a miss
// for a write that succeeded.
type imageRepository struct {
	db       *dbpg.DB
	writer   execer
	strategy retry.Strategy
}

func NewImageRepository(db *dbpg.DB, strategy retry.Strategy) domain.ImageRepository {
	return &imageRepository{
		db:       db,
		writer:   db.Master,
		strategy: strategy,
	}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	query := `
		INSERT INTO images (` + imageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.writer.ExecContext(ctx, query,
		image.ID,
		image.Title,
		image.Category,
		image.ImageURL,
		image.PublicID,
		nullString(image.OriginalName),
		image.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			zlog.Logger.Warn().Str("image_url", image.ImageURL).Msg("image url or public id already registered")
			return domain.ErrDuplicateImage
		}
		zlog.Logger.Error().Err(err).Str("image_id", image.ID).Msg("failed to create image")
		return fmt.Errorf("create image: %w", err)
	}

	zlog.Logger.Info().Str("image_id", image.ID).Msg("image created successfully")
	return nil
}

func (r *imageRepository) FindByID(ctx context.Context, id string) (*domain.Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrImageNotFound
	}

	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	row := r.db.Master.QueryRowContext(ctx, query, id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("image_id", id).Msg("failed to find image")
		return nil, fmt.Errorf("find image: %w", err)
	}

	return img, nil
}

func (r *imageRepository) ExistsByURL(ctx context.Context, imageURL string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM images WHERE image_url = $1)`, imageURL)
}

func (r *imageRepository) ExistsByPublicID(ctx context.Context, publicID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM images WHERE public_id = $1)`, publicID)
}

func (r *imageRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var found bool
	if err := r.db.Master.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		zlog.Logger.Error().Err(err).Str("value", arg).Msg("failed to check image existence")
		return false, fmt.Errorf("check image existence: %w", err)
	}
	return found, nil
}

func (r *imageRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrImageNotFound
	}

	query := `DELETE FROM images WHERE id = $1`

	result, err := r.writer.ExecContext(ctx, query, id)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("image_id", id).Msg("failed to delete image")
		return fmt.Errorf("delete image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrImageNotFound
	}

	zlog.Logger.Info().Str("image_id", id).Msg("image deleted successfully")
	return nil
}

func (r *imageRepository) List(ctx context.Context, filter domain.ImageFilter) ([]*domain.Image, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, args...)
	if err != nil {
		zlog.Logger.Error().Err(err).
			Str("category", filter.Category).
			Str("search", filter.Search).
			Msg("failed to list images")
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := make([]*domain.Image, 0, min(filter.Limit, 100))
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return images, nil
}

func buildListQuery(filter domain.ImageFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, escapeLike(filter.Search))
		where = append(where, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + imageColumns + ` FROM images`)
	if len(where) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(` ORDER BY uploaded_at DESC, id DESC`)

	args = append(args, filter.Limit)
	fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	fmt.Fprintf(&b, ` OFFSET $%d`, len(args))

	return b.String(), args
}

// escapeLike makes s match literally inside a LIKE pattern (backslash is the default escape).
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*domain.Image, error) {
	var img domain.Image
	var originalName sql.NullString

	err := row.Scan(
		&img.ID,
		&img.Title,
		&img.Category,
		&img.ImageURL,
		&img.PublicID,
		&originalName,
		&img.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	if originalName.Valid {
		img.OriginalName = originalName.String
	}

	return &img, nil
}
