package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

var ErrInvalidItem = errors.New("item name, description, starting bid and closing time are required")

// ItemService is the catalog glue: create and read auction items. Items
// are always created open, even when the closing time is already in the
// past; the first bid attempt or the sweeper closes those.
type ItemService struct {
	items domain.ItemRepository
	cache domain.ItemCache
	log   logger.Logger
}

func NewItemService(items domain.ItemRepository, cache domain.ItemCache, log logger.Logger) *ItemService {
	return &ItemService{
		items: items,
		cache: cache,
		log:   log,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, creator domain.Identity, itemName, description string, startingBid float64, closingTime time.Time) (*domain.AuctionItem, error) {
	if strings.TrimSpace(itemName) == "" || strings.TrimSpace(description) == "" ||
		startingBid <= 0 || closingTime.IsZero() {
		return nil, ErrInvalidItem
	}

	now := time.Now()
	item := &domain.AuctionItem{
		ID:          utils.GenerateID("item"),
		ItemName:    itemName,
		Description: description,
		CurrentBid:  startingBid,
		ClosingTime: closingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("Auction item created",
		"item_id", item.ID, "creator", creator.Username,
		"starting_bid", startingBid, "closing_time", closingTime)
	return item, nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]*domain.AuctionItem, error) {
	return s.items.ListItems(ctx)
}

// GetItem reads through the cache. Cache failures degrade to the
// repository and are only logged.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.AuctionItem, error) {
	cached, err := s.cache.GetItem(ctx, itemID)
	if err != nil {
		s.log.Error("Item cache read failed", "item_id", itemID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetItem(ctx, item); err != nil {
		s.log.Error("Item cache write failed", "item_id", itemID, "error", err)
	}
	return item, nil
}
