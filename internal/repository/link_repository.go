package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrUserNotFound = errors.New("user not found")
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByID(ctx context.Context, id string) (*models.Link, error)
	GetByShortenedURL(ctx context.Context, shortenedURL string) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	ListByClicks(ctx context.Context) ([]models.Link, error)
	IncrementClickCount(ctx context.Context, id string) (int64, error)
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id string) error
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	// Идентификатор назначает хранилище
	if link.ID == "" {
		link.ID = newID()
	}

	query := `
		INSERT INTO links (id, original_url, shortened_url, created_by, click_count, created_at, expired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		link.ID,
		link.OriginalURL,
		link.ShortenedURL,
		link.CreatedBy,
		link.ClickCount,
		link.CreatedAt,
		link.ExpiredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	query := `
		SELECT id, original_url, shortened_url, created_by, click_count, created_at, expired_at
		FROM links
		WHERE id = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.OriginalURL,
		&link.ShortenedURL,
		&link.CreatedBy,
		&link.ClickCount,
		&link.CreatedAt,
		&link.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// GetByShortenedURL возвращает первую запись с таким shortened_url.
// Дубликаты возможны (уникального индекса нет), берём первую по created_at.
func (r *linkRepository) GetByShortenedURL(ctx context.Context, shortenedURL string) (*models.Link, error) {
	query := `
		SELECT id, original_url, shortened_url, created_by, click_count, created_at, expired_at
		FROM links
		WHERE shortened_url = $1
		ORDER BY created_at
		LIMIT 1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, shortenedURL).Scan(
		&link.ID,
		&link.OriginalURL,
		&link.ShortenedURL,
		&link.CreatedBy,
		&link.ClickCount,
		&link.CreatedAt,
		&link.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by shortened url: %w", err)
	}

	return link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]models.Link, error) {
	query := `
		SELECT id, original_url, shortened_url, created_by, click_count, created_at, expired_at
		FROM links
		ORDER BY created_at
	`
	return r.queryLinks(ctx, query)
}

// ListByClicks возвращает все ссылки по убыванию кликов; вторичный ключ
// сортировки даёт стабильный порядок при равенстве счётчиков.
func (r *linkRepository) ListByClicks(ctx context.Context) ([]models.Link, error) {
	query := `
		SELECT id, original_url, shortened_url, created_by, click_count, created_at, expired_at
		FROM links
		ORDER BY click_count DESC, created_at
	`
	return r.queryLinks(ctx, query)
}

func (r *linkRepository) queryLinks(ctx context.Context, query string) ([]models.Link, error) {
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.OriginalURL,
			&link.ShortenedURL,
			&link.CreatedBy,
			&link.ClickCount,
			&link.CreatedAt,
			&link.ExpiredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// IncrementClickCount атомарно увеличивает счётчик на единицу и возвращает
// новое значение. Одиночный UPDATE исключает потерю инкремента при
// конкурентных переходах.
func (r *linkRepository) IncrementClickCount(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE links
		SET click_count = click_count + 1
		WHERE id = $1
		RETURNING click_count
	`

	var count int64
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrLinkNotFound
		}
		return 0, fmt.Errorf("failed to increment click count: %w", err)
	}

	return count, nil
}

func (r *linkRepository) Update(ctx context.Context, link *models.Link) error {
	query := `
		UPDATE links
		SET original_url = $2, shortened_url = $3, created_by = $4, click_count = $5, expired_at = $6
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		link.ID,
		link.OriginalURL,
		link.ShortenedURL,
		link.CreatedBy,
		link.ClickCount,
		link.ExpiredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM links WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}
