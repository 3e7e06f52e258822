package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidHistoryEntry is one public line of an auction's bid history
type BidHistoryEntry struct {
	Bidder MaskedBidderIdentity `json:"bidder"`
	Amount decimal.Decimal      `json:"amount"`
	Time   time.Time            `json:"time"`
}

// AuctionSnapshot is the locally cached view of one auction. It is fetched
// from the authority on first read, speculatively mutated when a bid is
// submitted, and invalidated (refetched) after every submit outcome. It is
// never ground truth; the authority is
type AuctionSnapshot struct {
	AuctionID   string            `json:"auction_id"`
	CurrentBid  decimal.Decimal   `json:"current_bid"`
	BidderCount int               `json:"bidder_count"`
	BidHistory  []BidHistoryEntry `json:"bid_history"` // newest first
	EndTime     time.Time         `json:"end_time"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// WithBid returns a copy of the snapshot with the speculative mutation for a
// just-submitted bid applied: current bid replaced, bidder count bumped, the
// new entry prepended to the history
func (s AuctionSnapshot) WithBid(bidder MaskedBidderIdentity, amount decimal.Decimal, at time.Time) AuctionSnapshot {
	history := make([]BidHistoryEntry, 0, len(s.BidHistory)+1)
	history = append(history, BidHistoryEntry{Bidder: bidder, Amount: amount, Time: at})
	history = append(history, s.BidHistory...)

	s.CurrentBid = amount
	s.BidderCount++
	s.BidHistory = history
	return s
}
