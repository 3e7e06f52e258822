package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BidReceipt records the last accepted bid placed through this gateway
// session for one auction. It answers "did I place the most recent accepted
// bid I know of", which is a device-local heuristic only: another bidder may
// have outbid since, and the receipt would not know. It is never
// correctness-bearing
type BidReceipt struct {
	AuctionID     string          `json:"auction_id"`
	BidderEmail   string          `json:"bidder_email"`
	LastBidAmount decimal.Decimal `json:"last_bid_amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Matches reports whether this receipt belongs to the given auction and
// email, email compared case-insensitively
func (r BidReceipt) Matches(auctionID, email string) bool {
	return r.AuctionID == auctionID && strings.EqualFold(r.BidderEmail, email)
}
