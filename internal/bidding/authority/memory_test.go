package authority

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
)

func newAcceptorWithAuction(t *testing.T, endsIn time.Duration) *MemoryAcceptor {
	t.Helper()
	m := NewMemoryAcceptor()
	m.CreateAuction("A1",
		decimal.NewFromInt(100),
		decimal.NewFromInt(5),
		time.Now().Add(endsIn),
	)
	return m
}

func TestPlaceBid_Accepts(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	out, err := m.PlaceBid(context.Background(), "A1", "Ada (ada****)", decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, domain.OutcomeAccepted, out.Code)

	snap, err := m.FetchSnapshot(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, snap.CurrentBid.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, 1, snap.BidderCount)
	require.Len(t, snap.BidHistory, 1)
	assert.Equal(t, domain.MaskedBidderIdentity("Ada (ada****)"), snap.BidHistory[0].Bidder)
}

func TestPlaceBid_RejectsAfterEndTime(t *testing.T) {
	m := newAcceptorWithAuction(t, -time.Minute)

	// any amount, however high, is rejected once the auction has ended
	out, err := m.PlaceBid(context.Background(), "A1", "Ada (ada****)", decimal.NewFromInt(999_999))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, domain.OutcomeAuctionEnded, out.Code)
}

func TestPlaceBid_RejectsNotAboveCurrent(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	out, err := m.PlaceBid(context.Background(), "A1", "Ada (ada****)", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, domain.OutcomeBidTooLow, out.Code)
}

func TestPlaceBid_RejectsBelowIncrement(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	// above current (100) but under current+increment (105)
	out, err := m.PlaceBid(context.Background(), "A1", "Ada (ada****)", decimal.NewFromInt(103))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, domain.OutcomeBelowIncrement, out.Code)
}

func TestPlaceBid_RejectionHasNoSideEffects(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	before, err := m.FetchSnapshot(context.Background(), "A1")
	require.NoError(t, err)

	_, err = m.PlaceBid(context.Background(), "A1", "Ada (ada****)", decimal.NewFromInt(50))
	require.NoError(t, err)

	after, err := m.FetchSnapshot(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, before.CurrentBid.Equal(after.CurrentBid))
	assert.Equal(t, before.BidderCount, after.BidderCount)
	assert.Len(t, after.BidHistory, 0)
}

func TestPlaceBid_UnknownAuction(t *testing.T) {
	m := NewMemoryAcceptor()

	out, err := m.PlaceBid(context.Background(), "nope", "Ada (ada****)", decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, domain.OutcomeNotFound, out.Code)

	_, err = m.FetchSnapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrAuctionNotFound)
}

// Concurrent submissions must resolve as some serial order: every accepted
// bid strictly raised the current bid, and the final current bid is the
// highest accepted amount
func TestPlaceBid_ConcurrentSubmissionsSerialize(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	const bidders = 50
	var wg sync.WaitGroup
	accepted := make([]bool, bidders)

	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(110 + i*5))
			out, err := m.PlaceBid(context.Background(), "A1", domain.MaskBidder("B", "b@x.com"), amount)
			if err == nil && out.Success {
				accepted[i] = true
			}
		}(i)
	}
	wg.Wait()

	snap, err := m.FetchSnapshot(context.Background(), "A1")
	require.NoError(t, err)

	// history is newest-first and every accepted amount is strictly
	// increasing when read oldest to newest
	history := snap.BidHistory
	for i := len(history) - 1; i > 0; i-- {
		assert.True(t, history[i-1].Amount.GreaterThan(history[i].Amount),
			"accepted amounts must be strictly increasing")
	}

	// the highest offered amount can always be accepted, whatever the
	// interleaving, and must be the final current bid
	assert.True(t, accepted[bidders-1])
	assert.True(t, snap.CurrentBid.Equal(decimal.NewFromInt(int64(110+(bidders-1)*5))))
	assert.Equal(t, len(history), snap.BidderCount)
}

func TestPlaceBid_CancelledContext(t *testing.T) {
	m := newAcceptorWithAuction(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.PlaceBid(ctx, "A1", "Ada (ada****)", decimal.NewFromInt(110))
	assert.ErrorIs(t, err, context.Canceled)
}
