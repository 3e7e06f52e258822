package receipt

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
)

func TestMemoryStore_PutOverwritesSameBidder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "ada@example.com",
		LastBidAmount: decimal.NewFromInt(110),
		Timestamp:     time.Now(),
	}
	require.NoError(t, s.Put(ctx, first))

	second := first
	second.LastBidAmount = decimal.NewFromInt(120)
	require.NoError(t, s.Put(ctx, second))

	got, ok, err := s.Get(ctx, "A1", "ada@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.LastBidAmount.Equal(decimal.NewFromInt(120)), "only the bidder's most recent receipt is retained")
}

func TestMemoryStore_BiddersDoNotEvictEachOther(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "ada@example.com",
		LastBidAmount: decimal.NewFromInt(110),
		Timestamp:     time.Now(),
	}))
	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "eve@example.com",
		LastBidAmount: decimal.NewFromInt(120),
		Timestamp:     time.Now().Add(time.Second),
	}))

	ada, ok, err := s.Get(ctx, "A1", "ada@example.com")
	require.NoError(t, err)
	require.True(t, ok, "ada's receipt survives eve's later bid")
	assert.True(t, ada.LastBidAmount.Equal(decimal.NewFromInt(110)))

	eve, ok, err := s.Get(ctx, "A1", "eve@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, eve.LastBidAmount.Equal(decimal.NewFromInt(120)))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get(context.Background(), "never-bid", "ada@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_LatestPicksMostRecent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "ada@example.com",
		LastBidAmount: decimal.NewFromInt(110),
		Timestamp:     base,
	}))
	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "eve@example.com",
		LastBidAmount: decimal.NewFromInt(120),
		Timestamp:     base.Add(time.Second),
	}))

	latest, ok, err := s.Latest(ctx, "A1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "eve@example.com", latest.BidderEmail)

	_, ok, err = s.Latest(ctx, "A2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsUserHighestBidder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "eve@example.com",
		LastBidAmount: decimal.NewFromInt(105),
		Timestamp:     base,
	}))
	require.NoError(t, s.Put(ctx, domain.BidReceipt{
		AuctionID:     "A1",
		BidderEmail:   "ada@example.com",
		LastBidAmount: decimal.NewFromInt(110),
		Timestamp:     base.Add(time.Second),
	}))

	tests := []struct {
		name      string
		auctionID string
		email     string
		want      bool
	}{
		{"latest bidder leads", "A1", "ada@example.com", true},
		{"latest bidder case-insensitive", "A1", "ADA@EXAMPLE.COM", true},
		{"outbid bidder does not lead", "A1", "eve@example.com", false},
		{"other auction", "A2", "ada@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsUserHighestBidder(ctx, s, tt.auctionID, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
