package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auction-marketplace/internal/domain"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

const itemColumns = `id, item_name, description, current_bid, highest_bidder, closing_time, is_closed, version, created_at, updated_at`

func (r *MySQLItemRepository) CreateItem(ctx context.Context, item *domain.AuctionItem) error {
	query := `
        INSERT INTO auction_items (` + itemColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ItemName, item.Description,
		item.CurrentBid, item.HighestBidder, item.ClosingTime,
		item.IsClosed, item.Version, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.AuctionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM auction_items WHERE id = ?`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *MySQLItemRepository) ListItems(ctx context.Context) ([]*domain.AuctionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM auction_items ORDER BY created_at ASC`
	return r.queryItems(ctx, query)
}

func (r *MySQLItemRepository) ListExpiredOpen(ctx context.Context, now time.Time) ([]*domain.AuctionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM auction_items WHERE is_closed = 0 AND closing_time <= ?`
	return r.queryItems(ctx, query, now)
}

// UpdateBid writes the new leading bid conditionally on the version the
// caller loaded. Losing the version check means another bid or the closing
// sweep committed first; the caller reloads and re-decides.
func (r *MySQLItemRepository) UpdateBid(ctx context.Context, item *domain.AuctionItem) error {
	query := `
        UPDATE auction_items
        SET current_bid = ?, highest_bidder = ?, version = version + 1, updated_at = ?
        WHERE id = ? AND version = ? AND is_closed = 0
    `
	return r.conditionalWrite(ctx, item, query,
		item.CurrentBid, item.HighestBidder, item.UpdatedAt, item.ID, item.Version)
}

func (r *MySQLItemRepository) CloseItem(ctx context.Context, item *domain.AuctionItem) error {
	query := `
        UPDATE auction_items
        SET is_closed = 1, version = version + 1, updated_at = ?
        WHERE id = ? AND version = ? AND is_closed = 0
    `
	return r.conditionalWrite(ctx, item, query, item.UpdatedAt, item.ID, item.Version)
}

func (r *MySQLItemRepository) conditionalWrite(ctx context.Context, item *domain.AuctionItem, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	item.Version++
	return nil
}

func (r *MySQLItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*domain.AuctionItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.AuctionItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.AuctionItem, error) {
	var item domain.AuctionItem
	err := row.Scan(
		&item.ID, &item.ItemName, &item.Description,
		&item.CurrentBid, &item.HighestBidder, &item.ClosingTime,
		&item.IsClosed, &item.Version, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
