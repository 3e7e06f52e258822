package cache

import (
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reconciler owns every mutation of the snapshot cache around a bid
// submission. The optimistic mutation is applied before the authority call is
// dispatched; Reconcile runs after the call settles, success or failure, and
// unconditionally invalidates so the UI converges on the authority's answer
// within one refetch
type Reconciler struct {
	store *Store
	now   func() time.Time
}

// NewReconciler creates a reconciler bound to one snapshot store
func NewReconciler(store *Store) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// ApplyOptimistic speculatively mutates the cached snapshot: current bid
// replaced, bidder count bumped, masked identity prepended to the history.
// The snapshot now disagrees with the authority until Reconcile runs, which
// is why Reconcile must follow every outcome
func (r *Reconciler) ApplyOptimistic(auctionID string, bidder domain.MaskedBidderIdentity, amount decimal.Decimal) {
	applied := r.store.SetData(auctionID, func(snap domain.AuctionSnapshot) domain.AuctionSnapshot {
		return snap.WithBid(bidder, amount, r.now())
	})
	if !applied {
		// nothing cached for this auction yet, there is no stale value a
		// viewer could be shown, so skipping the speculative write is safe
		log.Debug("Optimistic update skipped, no cached snapshot",
			zap.String("auctionID", auctionID),
		)
		return
	}
	log.Debug("Optimistic snapshot update applied",
		zap.String("auctionID", auctionID),
		zap.String("amount", amount.String()),
	)
}

// Reconcile discards the speculative state for auctionID by invalidating the
// cached snapshot and scheduling an authoritative refetch
func (r *Reconciler) Reconcile(auctionID string) {
	r.store.Invalidate(auctionID)
}
