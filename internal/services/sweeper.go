package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// Sweeper proactively closes items past their deadline so plain reads
// observe closure without a bid ever being submitted. It is additive: the
// bid protocol re-checks the deadline on every access, so correctness
// never depends on the sweep running. Gated by the leader lease so only
// one instance sweeps.
type Sweeper struct {
	cron       *cron.Cron
	items      domain.ItemRepository
	events     domain.EventPublisher
	cache      domain.ItemCache
	leader     domain.LeaderElection
	instanceID string
	interval   time.Duration
	log        logger.Logger
}

func NewSweeper(
	items domain.ItemRepository,
	events domain.EventPublisher,
	cache domain.ItemCache,
	leader domain.LeaderElection,
	instanceID string,
	interval time.Duration,
	log logger.Logger,
) *Sweeper {
	return &Sweeper{
		cron:       cron.New(cron.WithSeconds()),
		items:      items,
		events:     events,
		cache:      cache,
		leader:     leader,
		instanceID: instanceID,
		interval:   interval,
		log:        log,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.log.Info("Starting closing sweeper", "interval", s.interval)

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
		if err != nil {
			s.log.Error("Leader check failed", "error", err)
			return
		}
		if !isLeader {
			return
		}
		s.sweepExpired(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() error {
	s.log.Info("Stopping closing sweeper")
	s.cron.Stop()
	return nil
}

// sweepExpired closes every open item whose deadline has passed, using the
// same conditional write as the bid path. A version conflict means a
// concurrent bid call already closed the item; that is not an error.
func (s *Sweeper) sweepExpired(ctx context.Context) {
	now := time.Now()
	expired, err := s.items.ListExpiredOpen(ctx, now)
	if err != nil {
		s.log.Error("Failed to list expired items", "error", err)
		return
	}

	for _, item := range expired {
		item.Close(now)
		if err := s.items.CloseItem(ctx, item); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			s.log.Error("Failed to close expired item", "item_id", item.ID, "error", err)
			continue
		}

		s.log.Info("Closed expired item", "item_id", item.ID, "winner", item.HighestBidder)

		if err := s.events.PublishBidEvent(ctx, &domain.BidEvent{
			Type:      domain.BidEventClosed,
			ItemID:    item.ID,
			Bidder:    item.HighestBidder,
			Amount:    item.CurrentBid,
			Timestamp: now,
		}); err != nil {
			s.log.Error("Failed to publish close event", "item_id", item.ID, "error", err)
		}
		if err := s.cache.Invalidate(ctx, item.ID); err != nil {
			s.log.Error("Failed to invalidate item cache", "item_id", item.ID, "error", err)
		}
	}
}
