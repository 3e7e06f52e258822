package authority

import (
	"context"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/shopspring/decimal"
)

// Acceptor is the contract of the authoritative bid acceptor, the single
// source of truth for whether a bid is accepted. Implementations must uphold:
//
//   - Atomicity: concurrent submissions for one auction resolve as some
//     serial order of arrival, no double-accept of two "current highest" bids
//   - Monotonicity: an accepted amount exceeds the current highest bid by at
//     least the minimum increment at the moment of acceptance
//   - Terminal-state rejection: bids after the end time are always rejected
//   - No side effects on rejection
//
// The acceptor knows nothing about the gateway's snapshot cache; callers
// treat their own speculative state as provisional until reconciled.
// PlaceBid's error return is for transport failures only; a refused bid is a
// successful call with Outcome.Success=false
type Acceptor interface {
	PlaceBid(ctx context.Context, auctionID string, bidder domain.MaskedBidderIdentity, amount decimal.Decimal) (domain.Outcome, error)
	FetchSnapshot(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error)
}
