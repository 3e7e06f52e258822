package domain

import (
	"github.com/shopspring/decimal"
)

// MaxBidderNameLen caps the sanitized bidder name length
const MaxBidderNameLen = 100

// MaxBidAmount is the upper bound accepted for a single bid
var MaxBidAmount = decimal.NewFromInt(1_000_000)

// BidSubmission is the raw, untrusted input of one submit call. Ephemeral,
// never persisted directly
type BidSubmission struct {
	AuctionID   string
	BidderName  string
	BidderEmail string
	Amount      decimal.Decimal
}

// SanitizedBid is a BidSubmission after normalization: email lower-cased and
// trimmed, name trimmed/control-stripped and capped at MaxBidderNameLen,
// amount rounded to 2 decimal places.
// Invariant: 0 < Amount <= MaxBidAmount
type SanitizedBid struct {
	AuctionID   string
	BidderName  string
	BidderEmail string
	Amount      decimal.Decimal
}
