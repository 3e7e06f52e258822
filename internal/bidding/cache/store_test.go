package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
)

// countingFetcher serves a fixed snapshot and counts authority round trips
type countingFetcher struct {
	calls atomic.Int64
	snap  domain.AuctionSnapshot
	err   error
}

func (f *countingFetcher) fetch(_ context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return domain.AuctionSnapshot{}, f.err
	}
	snap := f.snap
	snap.AuctionID = auctionID
	return snap, nil
}

func authoritativeSnapshot() domain.AuctionSnapshot {
	return domain.AuctionSnapshot{
		CurrentBid:  decimal.NewFromInt(100),
		BidderCount: 4,
		BidHistory: []domain.BidHistoryEntry{
			{Bidder: "Eve (eve****)", Amount: decimal.NewFromInt(100)},
		},
	}
}

func TestGet_FetchesOnceThenCaches(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)

	snap, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", snap.AuctionID)
	assert.Equal(t, int64(1), f.calls.Load())

	_, err = s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestGet_PropagatesFetchError(t *testing.T) {
	f := &countingFetcher{err: errors.New("authority unreachable")}
	s := NewStore(f.fetch)

	_, err := s.Get(context.Background(), "A1")
	assert.ErrorContains(t, err, "authority unreachable")
}

func TestSetData_RequiresLoadedEntry(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)

	bump := func(snap domain.AuctionSnapshot) domain.AuctionSnapshot {
		snap.BidderCount++
		return snap
	}

	assert.False(t, s.SetData("A1", bump), "nothing cached yet")

	_, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, s.SetData("A1", bump))

	snap, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, 5, snap.BidderCount)
	assert.Equal(t, int64(1), f.calls.Load(), "SetData must not trigger a fetch")
}

func TestInvalidate_SchedulesRefetch(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)

	_, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)

	s.Invalidate("A1")
	assert.Eventually(t, func() bool {
		return f.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

// gatedFetcher serves the current value of bid, and stalls one chosen call
// until released so invalidations can land while a refresh is in flight
type gatedFetcher struct {
	calls     atomic.Int64
	bid       atomic.Int64
	stallCall int64
	started   chan struct{}
	release   chan struct{}
}

func (f *gatedFetcher) fetch(_ context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	n := f.calls.Add(1)
	snap := domain.AuctionSnapshot{
		AuctionID:  auctionID,
		CurrentBid: decimal.NewFromInt(f.bid.Load()),
	}
	if n == f.stallCall {
		close(f.started)
		<-f.release
	}
	return snap, nil
}

func TestInvalidate_DuringRefreshSchedulesAnotherFetch(t *testing.T) {
	f := &gatedFetcher{
		stallCall: 2,
		started:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	f.bid.Store(100)
	s := NewStore(f.fetch)

	_, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)

	// first invalidation: the background refresh stalls carrying bid 100
	s.Invalidate("A1")
	<-f.started

	// while it is in flight the authority moves to 200 and a second
	// invalidation arrives. It must not be swallowed by the running refresh
	f.bid.Store(200)
	s.Invalidate("A1")
	close(f.release)

	assert.Eventually(t, func() bool {
		snap, err := s.Get(context.Background(), "A1")
		return err == nil && snap.CurrentBid.Equal(decimal.NewFromInt(200))
	}, time.Second, 5*time.Millisecond, "the refetch owed to the second invalidation must land")
	assert.GreaterOrEqual(t, f.calls.Load(), int64(3))
}

func TestInvalidate_UnknownKeyIsNoop(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)

	s.Invalidate("never-seen")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), f.calls.Load())
}

func TestOnRefresh_ReceivesAuthoritativeSnapshots(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)

	var notified atomic.Int64
	s.OnRefresh(func(snap domain.AuctionSnapshot) {
		notified.Add(1)
	})

	_, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), notified.Load())

	s.Invalidate("A1")
	assert.Eventually(t, func() bool {
		return notified.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestReconciler_OptimisticThenReconcile(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)
	r := NewReconciler(s)

	_, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)

	r.ApplyOptimistic("A1", domain.MaskBidder("Ada", "ada@example.com"), decimal.NewFromInt(150))

	// the speculative value is visible immediately
	snap, err := s.Get(context.Background(), "A1")
	require.NoError(t, err)
	assert.True(t, snap.CurrentBid.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 5, snap.BidderCount)
	require.Len(t, snap.BidHistory, 2)
	assert.Equal(t, domain.MaskedBidderIdentity("Ada (ada****)"), snap.BidHistory[0].Bidder)

	// reconciliation replaces it with whatever the authority reports, which
	// here still says 100: the speculative value must not survive
	r.Reconcile("A1")
	assert.Eventually(t, func() bool {
		snap, err := s.Get(context.Background(), "A1")
		return err == nil && snap.CurrentBid.Equal(decimal.NewFromInt(100)) && snap.BidderCount == 4
	}, time.Second, 5*time.Millisecond)
}

func TestReconciler_OptimisticWithoutCacheIsSafe(t *testing.T) {
	f := &countingFetcher{snap: authoritativeSnapshot()}
	s := NewStore(f.fetch)
	r := NewReconciler(s)

	// no snapshot cached yet, must not panic or fetch
	r.ApplyOptimistic("A1", domain.MaskBidder("Ada", "ada@example.com"), decimal.NewFromInt(150))
	assert.Equal(t, int64(0), f.calls.Load())
}
