package authority

import (
	"context"
	"sync"
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// auction is one auction's authoritative state. The mutex serializes every
// accept/reject decision, which is what gives the memory acceptor its
// atomicity guarantee
type auction struct {
	mu           sync.Mutex
	id           string
	currentBid   decimal.Decimal
	minIncrement decimal.Decimal
	endTime      time.Time
	bidderCount  int
	history      []domain.BidHistoryEntry
}

// MemoryAcceptor is an in-process reference implementation of the Acceptor
// contract. It backs local development mode and the contract tests; a real
// deployment points the gateway at a remote authority instead
type MemoryAcceptor struct {
	mu       sync.Mutex
	auctions map[string]*auction
	now      func() time.Time
}

// NewMemoryAcceptor creates an empty in-process acceptor
func NewMemoryAcceptor() *MemoryAcceptor {
	return &MemoryAcceptor{
		auctions: make(map[string]*auction),
		now:      time.Now,
	}
}

// CreateAuction registers an auction with a starting price, minimum bid
// increment and end time
func (m *MemoryAcceptor) CreateAuction(auctionID string, startingBid, minIncrement decimal.Decimal, endTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auctions[auctionID] = &auction{
		id:           auctionID,
		currentBid:   startingBid,
		minIncrement: minIncrement,
		endTime:      endTime,
	}
}

func (m *MemoryAcceptor) get(auctionID string) *auction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auctions[auctionID]
}

// PlaceBid atomically decides accept or reject for one bid. Rejections leave
// the auction state untouched
func (m *MemoryAcceptor) PlaceBid(ctx context.Context, auctionID string, bidder domain.MaskedBidderIdentity, amount decimal.Decimal) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, err
	}

	a := m.get(auctionID)
	if a == nil {
		return domain.Outcome{
			Success: false,
			Code:    domain.OutcomeNotFound,
			Message: "auction not found",
		}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := m.now()
	if now.After(a.endTime) {
		log.Warn("Bid rejected: auction ended",
			zap.String("auctionID", auctionID),
			zap.String("amount", amount.String()),
		)
		return domain.Outcome{
			Success: false,
			Code:    domain.OutcomeAuctionEnded,
			Message: "auction has ended",
		}, nil
	}

	if !amount.GreaterThan(a.currentBid) {
		log.Warn("Bid rejected: amount not above current bid",
			zap.String("auctionID", auctionID),
			zap.String("amount", amount.String()),
			zap.String("currentBid", a.currentBid.String()),
		)
		return domain.Outcome{
			Success: false,
			Code:    domain.OutcomeBidTooLow,
			Message: "bid is not higher than the current bid",
		}, nil
	}

	if amount.LessThan(a.currentBid.Add(a.minIncrement)) {
		log.Warn("Bid rejected: increment too small",
			zap.String("auctionID", auctionID),
			zap.String("amount", amount.String()),
			zap.String("currentBid", a.currentBid.String()),
			zap.String("minIncrement", a.minIncrement.String()),
		)
		return domain.Outcome{
			Success: false,
			Code:    domain.OutcomeBelowIncrement,
			Message: "bid increment is too small",
		}, nil
	}

	a.currentBid = amount
	a.bidderCount++
	a.history = append([]domain.BidHistoryEntry{{
		Bidder: bidder,
		Amount: amount,
		Time:   now,
	}}, a.history...)

	log.Info("Bid accepted",
		zap.String("auctionID", auctionID),
		zap.String("bidder", string(bidder)),
		zap.String("amount", amount.String()),
	)

	return domain.Outcome{
		Success: true,
		Code:    domain.OutcomeAccepted,
		Message: "bid accepted",
	}, nil
}

// FetchSnapshot returns the current authoritative view of one auction
func (m *MemoryAcceptor) FetchSnapshot(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuctionSnapshot{}, err
	}

	a := m.get(auctionID)
	if a == nil {
		return domain.AuctionSnapshot{}, domain.ErrAuctionNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	history := make([]domain.BidHistoryEntry, len(a.history))
	copy(history, a.history)

	return domain.AuctionSnapshot{
		AuctionID:   a.id,
		CurrentBid:  a.currentBid,
		BidderCount: a.bidderCount,
		BidHistory:  history,
		EndTime:     a.endTime,
		FetchedAt:   m.now(),
	}, nil
}
