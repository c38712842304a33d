package domain

import "time"

// Phase is the lifecycle state of one auction item. The only legal
// transition is Open -> Closed; nothing leaves Closed.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// BidOutcome is the terminal result of one bid submission against one item.
type BidOutcome int

const (
	// BidAccepted: the proposal beat the current bid and was recorded.
	BidAccepted BidOutcome = iota
	// BidRejectedTooLow: the proposal did not strictly exceed the current
	// bid. Equal bids are rejected so duplicate submissions cannot both
	// "succeed" with no net change.
	BidRejectedTooLow
	// BidRejectedClosed: the item was already closed before this call.
	BidRejectedClosed
	// BidClosesAuction: the deadline has passed and this access performs
	// the Open -> Closed transition. The triggering bid is discarded.
	BidClosesAuction
)

func (o BidOutcome) String() string {
	switch o {
	case BidAccepted:
		return "accepted"
	case BidRejectedTooLow:
		return "rejected_too_low"
	case BidRejectedClosed:
		return "rejected_closed"
	case BidClosesAuction:
		return "closes_auction"
	default:
		return "unknown"
	}
}

// ShouldClose reports whether an item must transition to Closed when
// observed at instant now. Closing is a lazily materialized fact: it is
// enforced at every mutation entry point rather than by a timer.
func ShouldClose(item *AuctionItem, now time.Time) bool {
	return !item.IsClosed && !now.Before(item.ClosingTime)
}

// PhaseAt returns the phase the item must be reported in when observed at
// instant now, regardless of whether the closing transition has been
// persisted yet.
func PhaseAt(item *AuctionItem, now time.Time) Phase {
	if item.IsClosed || ShouldClose(item, now) {
		return PhaseClosed
	}
	return PhaseOpen
}

// DecideBid applies the bid acceptance rules to a single proposal observed
// at instant now. It is pure: the caller persists whatever mutation the
// outcome demands (RecordBid or Close) under its concurrency scope.
func DecideBid(item *AuctionItem, amount float64, now time.Time) BidOutcome {
	if item.IsClosed {
		return BidRejectedClosed
	}
	if ShouldClose(item, now) {
		return BidClosesAuction
	}
	if amount > item.CurrentBid {
		return BidAccepted
	}
	return BidRejectedTooLow
}

// RecordBid applies an accepted proposal. CurrentBid and HighestBidder
// change together, never independently.
func (i *AuctionItem) RecordBid(bidder string, amount float64, now time.Time) {
	i.CurrentBid = amount
	i.HighestBidder = bidder
	i.UpdatedAt = now
}

// Close marks the item closed. Idempotent; the flag never reverts.
func (i *AuctionItem) Close(now time.Time) {
	i.IsClosed = true
	i.UpdatedAt = now
}
