package repository

import (
	"context"
	"fmt"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
)

type ClickRepository interface {
	RecordClick(ctx context.Context, click *models.Click) error
	GetStats(ctx context.Context, linkID string) (*models.ClickStats, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (link_id, ip_address, user_agent, referer, clicked_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		click.LinkID,
		click.IPAddress,
		click.UserAgent,
		click.Referer,
		click.ClickedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *clickRepository) GetStats(ctx context.Context, linkID string) (*models.ClickStats, error) {
	query := `
		SELECT
			COUNT(*) as total_clicks,
			COUNT(DISTINCT ip_address) as unique_clicks
		FROM clicks
		WHERE link_id = $1
	`

	stats := &models.ClickStats{
		LinkID: linkID,
	}

	err := r.db.Pool.QueryRow(ctx, query, linkID).Scan(
		&stats.TotalClicks,
		&stats.UniqueClicks,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get click stats: %w", err)
	}

	return stats, nil
}
