// Package postgres implements ports.Repository against PostgreSQL with
// sqlx, following the same connection and query conventions as the
// teacher's internal/repository package: *sqlx.DB wrapped in a small
// struct per concern, NamedExecContext for writes, GetContext/
// SelectContext for reads, errors wrapped with fmt.Errorf("%s: %w").
package postgres

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/sched-engine/internal/config"
)

// Connect opens a PostgreSQL connection pool configured from cfg,
// mirroring the teacher's pkg/database.NewPostgres.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Store is the ports.Repository implementation. All entity-specific
// methods hang off this one type, split across files by concern the way
// the teacher splits internal/repository by entity.
type Store struct {
	db *sqlx.DB
}

// New wraps an already-connected *sqlx.DB in a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}
