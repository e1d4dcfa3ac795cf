package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/config"
)

// NewPostgres opens the pool. The caller pings it.
func NewPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
