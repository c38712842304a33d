package mysql

import (
	"context"
	"database/sql"

	"auction-marketplace/internal/domain"
)

// MySQLBidLedger appends the bid event history. Only accepted bids and
// closures land here; it is an audit trail, not the source of truth for
// the item state.
type MySQLBidLedger struct {
	db *sql.DB
}

func NewMySQLBidLedger(db *sql.DB) *MySQLBidLedger {
	return &MySQLBidLedger{db: db}
}

func (r *MySQLBidLedger) AppendEvent(ctx context.Context, event *domain.BidEvent) error {
	query := `
        INSERT INTO bid_events (item_id, bidder, amount, event_type, timestamp)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		event.ItemID, event.Bidder, event.Amount, string(event.Type), event.Timestamp)
	return err
}

func (r *MySQLBidLedger) History(ctx context.Context, itemID string) ([]*domain.BidEvent, error) {
	query := `
        SELECT item_id, bidder, amount, event_type, timestamp
        FROM bid_events
        WHERE item_id = ?
        ORDER BY timestamp ASC
    `

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.BidEvent
	for rows.Next() {
		var event domain.BidEvent
		var eventType string

		err := rows.Scan(&event.ItemID, &event.Bidder, &event.Amount,
			&eventType, &event.Timestamp)
		if err != nil {
			return nil, err
		}

		event.Type = domain.BidEventType(eventType)
		events = append(events, &event)
	}

	return events, rows.Err()
}
