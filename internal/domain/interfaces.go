package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ItemRepository interface {
	CreateItem(ctx context.Context, item *AuctionItem) error
	GetItem(ctx context.Context, itemID string) (*AuctionItem, error)
	ListItems(ctx context.Context) ([]*AuctionItem, error)

	// UpdateBid persists item.CurrentBid/item.HighestBidder conditionally
	// on the version the item was loaded at. On success the item's Version
	// is advanced; if another writer got there first it returns
	// ErrVersionConflict and leaves the stored row untouched.
	UpdateBid(ctx context.Context, item *AuctionItem) error

	// CloseItem persists the Open -> Closed transition under the same
	// conditional-write rule as UpdateBid.
	CloseItem(ctx context.Context, item *AuctionItem) error

	// ListExpiredOpen returns items still open whose closing time is at or
	// before now. Used by the proactive sweep.
	ListExpiredOpen(ctx context.Context, now time.Time) ([]*AuctionItem, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type BidLedger interface {
	AppendEvent(ctx context.Context, event *BidEvent) error
	History(ctx context.Context, itemID string) ([]*BidEvent, error)
}

// Cache interface. All methods are best-effort: a cache failure degrades
// to the repository, it never changes an outcome.
type ItemCache interface {
	GetItem(ctx context.Context, itemID string) (*AuctionItem, error)
	SetItem(ctx context.Context, item *AuctionItem) error
	Invalidate(ctx context.Context, itemID string) error
}

// Event interface
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

// Leader election interface
type LeaderElection interface {
	AcquireLease(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLease(ctx context.Context, instanceID string) error
}

// TokenVerifier is the identity boundary: it turns a bearer token into a
// verified Identity or a failure distinguishing missing from invalid.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}
