package receipt

import (
	"context"
	"strings"
	"sync"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
)

// Store persists the last accepted bid per (auction, bidder) pair for this
// gateway. A bidder's new accepted bid overwrites their previous receipt on
// the same auction; receipts of other bidders are untouched. The interface
// is injected into the pipeline so tests fake it and deployments pick a
// backend without touching submission logic
type Store interface {
	Get(ctx context.Context, auctionID, email string) (domain.BidReceipt, bool, error)
	Latest(ctx context.Context, auctionID string) (domain.BidReceipt, bool, error)
	Put(ctx context.Context, r domain.BidReceipt) error
}

// IsUserHighestBidder reports whether the most recent receipt for auctionID
// belongs to email (case-insensitive). This answers "did this bidder place
// the most recent accepted bid this gateway knows of", not "is this bidder
// currently the highest" — a bid placed elsewhere may have outbid since the
// receipt was written. Heuristic only, never correctness-bearing
func IsUserHighestBidder(ctx context.Context, s Store, auctionID, email string) (bool, error) {
	r, ok, err := s.Latest(ctx, auctionID)
	if err != nil {
		return false, err
	}
	return ok && r.Matches(auctionID, email), nil
}

// MemoryStore keeps receipts in process memory, the default backend
type MemoryStore struct {
	mu       sync.RWMutex
	receipts map[string]map[string]domain.BidReceipt
}

// NewMemoryStore creates an empty in-memory receipt store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{receipts: make(map[string]map[string]domain.BidReceipt)}
}

func receiptKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryStore) Get(_ context.Context, auctionID, email string) (domain.BidReceipt, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.receipts[auctionID][receiptKey(email)]
	return r, ok, nil
}

func (m *MemoryStore) Latest(_ context.Context, auctionID string) (domain.BidReceipt, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest domain.BidReceipt
	found := false
	for _, r := range m.receipts[auctionID] {
		if !found || r.Timestamp.After(latest.Timestamp) {
			latest = r
			found = true
		}
	}
	return latest, found, nil
}

func (m *MemoryStore) Put(_ context.Context, r domain.BidReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byBidder, ok := m.receipts[r.AuctionID]
	if !ok {
		byBidder = make(map[string]domain.BidReceipt)
		m.receipts[r.AuctionID] = byBidder
	}
	byBidder[receiptKey(r.BidderEmail)] = r
	return nil
}
