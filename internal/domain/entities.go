package domain

import (
	"time"
)

// AuctionItem is one lot under auction. CurrentBid and HighestBidder are
// mutated only through the bid acceptance protocol; IsClosed is terminal.
type AuctionItem struct {
	ID            string    `json:"id"`
	ItemName      string    `json:"item_name"`
	Description   string    `json:"description"`
	CurrentBid    float64   `json:"current_bid"`
	HighestBidder string    `json:"highest_bidder"`
	ClosingTime   time.Time `json:"closing_time"`
	IsClosed      bool      `json:"is_closed"`
	// Version is the optimistic concurrency token. Every persisted mutation
	// of the item increments it; conditional writes key on (ID, Version).
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is a caller identity asserted by a verified token.
type Identity struct {
	UserID   string
	Username string
}

type BidEvent struct {
	Type      BidEventType `json:"type"`
	ItemID    string       `json:"item_id"`
	Bidder    string       `json:"bidder"`
	Amount    float64      `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
}

type BidEventType string

const (
	BidEventAccepted BidEventType = "bid_accepted"
	BidEventRejected BidEventType = "bid_rejected"
	BidEventClosed   BidEventType = "auction_closed"
)
