package services

import (
	"context"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
)

// memItemRepo mirrors the store's conditional-write semantics under a
// mutex: reads hand out copies, writes compare the caller's version
// against the stored row.
type memItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.AuctionItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*domain.AuctionItem)}
}

func (r *memItemRepo) CreateItem(_ context.Context, item *domain.AuctionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetItem(_ context.Context, itemID string) (*domain.AuctionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *stored
	return &cp, nil
}

func (r *memItemRepo) ListItems(_ context.Context) ([]*domain.AuctionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.AuctionItem
	for _, stored := range r.items {
		cp := *stored
		items = append(items, &cp)
	}
	return items, nil
}

func (r *memItemRepo) ListExpiredOpen(_ context.Context, now time.Time) ([]*domain.AuctionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.AuctionItem
	for _, stored := range r.items {
		if !stored.IsClosed && !now.Before(stored.ClosingTime) {
			cp := *stored
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *memItemRepo) UpdateBid(_ context.Context, item *domain.AuctionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stored.Version != item.Version || stored.IsClosed {
		return domain.ErrVersionConflict
	}
	stored.CurrentBid = item.CurrentBid
	stored.HighestBidder = item.HighestBidder
	stored.UpdatedAt = item.UpdatedAt
	stored.Version++
	item.Version = stored.Version
	return nil
}

func (r *memItemRepo) CloseItem(_ context.Context, item *domain.AuctionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stored.Version != item.Version || stored.IsClosed {
		return domain.ErrVersionConflict
	}
	stored.IsClosed = true
	stored.UpdatedAt = item.UpdatedAt
	stored.Version++
	item.Version = stored.Version
	return nil
}

// snapshot returns the stored row for assertions.
func (r *memItemRepo) snapshot(itemID string) *domain.AuctionItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[itemID]
	if !ok {
		return nil
	}
	cp := *stored
	return &cp
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUsernameTaken
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *memUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

type memLedger struct {
	mu     sync.Mutex
	events []*domain.BidEvent
}

func (l *memLedger) AppendEvent(_ context.Context, event *domain.BidEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *event
	l.events = append(l.events, &cp)
	return nil
}

func (l *memLedger) History(_ context.Context, itemID string) ([]*domain.BidEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var events []*domain.BidEvent
	for _, e := range l.events {
		if e.ItemID == itemID {
			cp := *e
			events = append(events, &cp)
		}
	}
	return events, nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []*domain.BidEvent
}

func (p *memPublisher) PublishBidEvent(_ context.Context, event *domain.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *event
	p.events = append(p.events, &cp)
	return nil
}

func (p *memPublisher) byType(t domain.BidEventType) []*domain.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var events []*domain.BidEvent
	for _, e := range p.events {
		if e.Type == t {
			events = append(events, e)
		}
	}
	return events
}

// memCache records invalidations; reads always miss so service tests
// exercise the repository path.
type memCache struct {
	mu          sync.Mutex
	stored      map[string]*domain.AuctionItem
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{stored: make(map[string]*domain.AuctionItem)}
}

func (c *memCache) GetItem(_ context.Context, itemID string) (*domain.AuctionItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.stored[itemID]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (c *memCache) SetItem(_ context.Context, item *domain.AuctionItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *item
	c.stored[item.ID] = &cp
	return nil
}

func (c *memCache) Invalidate(_ context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stored, itemID)
	c.invalidated = append(c.invalidated, itemID)
	return nil
}

// conflictOnceRepo wraps an ItemRepository and forces the first N
// conditional writes to report a version conflict.
type conflictOnceRepo struct {
	domain.ItemRepository
	mu        sync.Mutex
	conflicts int
}

func (r *conflictOnceRepo) UpdateBid(ctx context.Context, item *domain.AuctionItem) error {
	if r.takeConflict() {
		return domain.ErrVersionConflict
	}
	return r.ItemRepository.UpdateBid(ctx, item)
}

func (r *conflictOnceRepo) CloseItem(ctx context.Context, item *domain.AuctionItem) error {
	if r.takeConflict() {
		return domain.ErrVersionConflict
	}
	return r.ItemRepository.CloseItem(ctx, item)
}

func (r *conflictOnceRepo) takeConflict() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return true
	}
	return false
}
