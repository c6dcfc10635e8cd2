// Package postgres implements the repository interfaces on PostgreSQL using a
// pgx connection pool.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for migrations

	"github.com/sakif/affirmations/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var _ repository.Store = (*DB)(nil)

// DB holds the pool and hands out the per-entity repositories.
type DB struct {
	pool *pgxpool.Pool
}

// New applies pending migrations and opens a pool for databaseURL.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate applies the embedded migrations over a short-lived database/sql
// connection, which is what the golang-migrate pgx driver expects.
func Migrate(databaseURL string) error {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("postgres: opening migration connection: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		conn.Close()
		return fmt.Errorf("postgres: loading migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(conn, &migratepgx.Config{})
	if err != nil {
		conn.Close()
		return fmt.Errorf("postgres: creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		conn.Close()
		return fmt.Errorf("postgres: creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: applying migrations: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Users() repository.UserRepository {
	return &UserDB{pool: db.pool}
}

func (db *DB) Affirmations() repository.AffirmationRepository {
	return &AffirmationDB{pool: db.pool}
}

func (db *DB) Categories() repository.CategoryRepository {
	return &CategoryDB{pool: db.pool}
}

func (db *DB) Moods() repository.MoodRepository {
	return &MoodDB{pool: db.pool}
}

func (db *DB) Favorites() repository.FavoriteRepository {
	return &FavoriteDB{pool: db.pool}
}

func (db *DB) Sessions() repository.SessionRepository {
	return &SessionDB{pool: db.pool}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
