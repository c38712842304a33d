package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// bidRetryLimit bounds the optimistic retry loop. Every conflict means a
// concurrent writer committed, so in practice one or two iterations
// suffice even under heavy contention on a single item.
const bidRetryLimit = 32

// BidResult is the terminal outcome of one bid submission. Item reflects
// the state the decision was made against: the updated record on accept,
// the closed record on either closed outcome.
type BidResult struct {
	Outcome domain.BidOutcome
	Item    *domain.AuctionItem
}

// Winner is the leading bidder at the time the auction closed, empty if
// no bid was ever accepted.
func (r *BidResult) Winner() string {
	return r.Item.HighestBidder
}

// BidService implements the bid acceptance protocol: load the item, decide
// against the state machine, and persist the single resulting mutation
// with a conditional write so concurrent submissions on the same item
// serialize correctly.
type BidService struct {
	items  domain.ItemRepository
	ledger domain.BidLedger
	events domain.EventPublisher
	cache  domain.ItemCache
	log    logger.Logger
}

func NewBidService(
	items domain.ItemRepository,
	ledger domain.BidLedger,
	events domain.EventPublisher,
	cache domain.ItemCache,
	log logger.Logger,
) *BidService {
	return &BidService{
		items:  items,
		ledger: ledger,
		events: events,
		cache:  cache,
		log:    log,
	}
}

// PlaceBid runs one submission to exactly one of its terminal outcomes.
// It returns domain.ErrItemNotFound when the id does not resolve; every
// other rejection is reported through BidResult.Outcome so the caller can
// distinguish too-low from closed.
func (s *BidService) PlaceBid(ctx context.Context, itemID string, bidder domain.Identity, amount float64) (*BidResult, error) {
	s.log.Info("Placing bid", "item_id", itemID, "bidder", bidder.Username, "amount", amount)

	for attempt := 0; attempt < bidRetryLimit; attempt++ {
		item, err := s.items.GetItem(ctx, itemID)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		outcome := domain.DecideBid(item, amount, now)

		switch outcome {
		case domain.BidRejectedClosed:
			// Already closed before this call; read-only.
			return &BidResult{Outcome: outcome, Item: item}, nil

		case domain.BidClosesAuction:
			// Deadline passed: this access performs the closing transition
			// and the triggering bid is discarded. The transition must be
			// persisted before reporting, so later reads observe it.
			item.Close(now)
			if err := s.items.CloseItem(ctx, item); err != nil {
				if errors.Is(err, domain.ErrVersionConflict) {
					continue // another writer got there first; re-decide
				}
				return nil, err
			}
			s.afterClose(ctx, item)
			return &BidResult{Outcome: outcome, Item: item}, nil

		case domain.BidAccepted:
			item.RecordBid(bidder.Username, amount, now)
			if err := s.items.UpdateBid(ctx, item); err != nil {
				if errors.Is(err, domain.ErrVersionConflict) {
					continue
				}
				return nil, err
			}
			s.afterAccept(ctx, item, bidder.Username, amount, now)
			return &BidResult{Outcome: outcome, Item: item}, nil

		default: // domain.BidRejectedTooLow
			s.publish(ctx, &domain.BidEvent{
				Type:      domain.BidEventRejected,
				ItemID:    item.ID,
				Bidder:    bidder.Username,
				Amount:    amount,
				Timestamp: now,
			})
			return &BidResult{Outcome: outcome, Item: item}, nil
		}
	}

	return nil, fmt.Errorf("bid on item %s: retry limit exceeded: %w", itemID, domain.ErrVersionConflict)
}

// History returns the recorded bid events for an item.
func (s *BidService) History(ctx context.Context, itemID string) ([]*domain.BidEvent, error) {
	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.ledger.History(ctx, itemID)
}

// afterAccept records the auxiliary side effects of an accepted bid. They
// live outside the item record and never change the outcome.
func (s *BidService) afterAccept(ctx context.Context, item *domain.AuctionItem, bidder string, amount float64, now time.Time) {
	event := &domain.BidEvent{
		Type:      domain.BidEventAccepted,
		ItemID:    item.ID,
		Bidder:    bidder,
		Amount:    amount,
		Timestamp: now,
	}
	if err := s.ledger.AppendEvent(ctx, event); err != nil {
		s.log.Error("Failed to append bid event", "item_id", item.ID, "error", err)
	}
	s.publish(ctx, event)
	s.invalidate(ctx, item.ID)
}

func (s *BidService) afterClose(ctx context.Context, item *domain.AuctionItem) {
	s.publish(ctx, &domain.BidEvent{
		Type:      domain.BidEventClosed,
		ItemID:    item.ID,
		Bidder:    item.HighestBidder,
		Amount:    item.CurrentBid,
		Timestamp: item.UpdatedAt,
	})
	s.invalidate(ctx, item.ID)
}

func (s *BidService) publish(ctx context.Context, event *domain.BidEvent) {
	if err := s.events.PublishBidEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish bid event", "item_id", event.ItemID, "error", err)
	}
}

func (s *BidService) invalidate(ctx context.Context, itemID string) {
	if err := s.cache.Invalidate(ctx, itemID); err != nil {
		s.log.Error("Failed to invalidate item cache", "item_id", itemID, "error", err)
	}
}
