package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"auction-marketplace/internal/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          VARCHAR(64)  PRIMARY KEY,
		username    VARCHAR(64)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at  DATETIME(6)  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auction_items (
		id             VARCHAR(64)  PRIMARY KEY,
		item_name      VARCHAR(255) NOT NULL,
		description    TEXT         NOT NULL,
		current_bid    DOUBLE       NOT NULL,
		highest_bidder VARCHAR(64)  NOT NULL DEFAULT '',
		closing_time   DATETIME(6)  NOT NULL,
		is_closed      TINYINT(1)   NOT NULL DEFAULT 0,
		version        BIGINT       NOT NULL DEFAULT 0,
		created_at     DATETIME(6)  NOT NULL,
		updated_at     DATETIME(6)  NOT NULL,
		INDEX idx_open_deadline (is_closed, closing_time)
	)`,
	`CREATE TABLE IF NOT EXISTS bid_events (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		item_id    VARCHAR(64)  NOT NULL,
		bidder     VARCHAR(64)  NOT NULL,
		amount     DOUBLE       NOT NULL,
		event_type VARCHAR(32)  NOT NULL,
		timestamp  DATETIME(6)  NOT NULL,
		INDEX idx_item_events (item_id, timestamp)
	)`,
}

// Open connects to MySQL with the configured pool settings and bootstraps
// the schema.
func Open(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}

	return db, nil
}
