package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
)

type PostgresDB struct {
	Pool *pgxpool.Pool
}

func NewPostgresDB(cfg config.DBConfig) (*PostgresDB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	// Настройка пула соединений
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

func (db *PostgresDB) Close() {
	db.Pool.Close()
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Схема создаётся на старте. shortened_url намеренно без UNIQUE:
// уникальность обеспечивает путь создания, а не хранилище.
const schema = `
	CREATE TABLE IF NOT EXISTS links (
		id            TEXT PRIMARY KEY,
		original_url  TEXT NOT NULL,
		shortened_url TEXT NOT NULL,
		created_by    TEXT NOT NULL DEFAULT '',
		click_count   BIGINT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL,
		expired_at    TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_links_shortened_url ON links (shortened_url);

	CREATE TABLE IF NOT EXISTS users (
		id        TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		username  TEXT NOT NULL,
		password  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users (username);

	CREATE TABLE IF NOT EXISTS clicks (
		id         BIGSERIAL PRIMARY KEY,
		link_id    TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		referer    TEXT NOT NULL DEFAULT '',
		clicked_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_clicks_link_id ON clicks (link_id);
`

// InitSchema создаёт таблицы, если их ещё нет.
func (db *PostgresDB) InitSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// newID генерирует 24-символьный hex идентификатор записи.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
