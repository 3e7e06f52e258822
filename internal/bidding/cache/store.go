package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// FetchFunc retrieves the authoritative snapshot of one auction
type FetchFunc func(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error)

type entry struct {
	snap       domain.AuctionSnapshot
	loaded     bool
	stale      bool
	refreshing bool

	// gen counts invalidations. A refresh carries the gen it started from;
	// if the entry was invalidated again while the fetch was in flight, the
	// result is already outdated and another refetch is owed
	gen uint64
}

// Store is an explicit key-value snapshot cache, passed by reference into the
// reconciler and the HTTP layer instead of living as a module-level global.
// All mutation goes through the store's mutex; readers see either the last
// authoritative snapshot or a speculative one that is already scheduled for
// reconciliation
type Store struct {
	fetch FetchFunc

	mu      sync.Mutex
	entries map[string]*entry

	// onRefresh, when set, receives every snapshot that arrives from the
	// authority. The websocket hub hangs off this to push live updates
	onRefresh func(domain.AuctionSnapshot)
}

// NewStore creates a snapshot store that refetches through fetch
func NewStore(fetch FetchFunc) *Store {
	return &Store{
		fetch:   fetch,
		entries: make(map[string]*entry),
	}
}

// OnRefresh registers a listener for authoritative snapshots. Must be called
// before the store is shared
func (s *Store) OnRefresh(fn func(domain.AuctionSnapshot)) {
	s.onRefresh = fn
}

// Get returns the cached snapshot for auctionID, fetching from the authority
// when the entry is missing or stale
func (s *Store) Get(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	s.mu.Lock()
	e, ok := s.entries[auctionID]
	if ok && e.loaded && !e.stale {
		snap := e.snap
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	return s.Refresh(ctx, auctionID)
}

// SetData replaces the cached snapshot for auctionID via a pure function of
// the previous value. It is a no-op when nothing is cached yet, since there
// is no previous value to transform
func (s *Store) SetData(auctionID string, updater func(domain.AuctionSnapshot) domain.AuctionSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[auctionID]
	if !ok || !e.loaded {
		return false
	}
	e.snap = updater(e.snap)
	return true
}

// Invalidate marks the entry stale and schedules a background refetch. The
// stale mark is synchronous, so a reader arriving right after never sees the
// speculative value presented as fresh
func (s *Store) Invalidate(auctionID string) {
	s.mu.Lock()
	e, ok := s.entries[auctionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	e.stale = true
	e.gen++
	if e.refreshing {
		// the in-flight refresh started before this invalidation; the gen
		// bump makes it schedule another fetch when it lands
		s.mu.Unlock()
		return
	}
	e.refreshing = true
	s.mu.Unlock()

	go s.backgroundRefresh(auctionID)
}

func (s *Store) backgroundRefresh(auctionID string) {
	if _, err := s.Refresh(context.Background(), auctionID); err != nil {
		log.Warn("Background snapshot refresh failed",
			zap.String("auctionID", auctionID),
			zap.Error(err),
		)
	}
}

// Refresh fetches the authoritative snapshot and replaces the cached entry
func (s *Store) Refresh(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	s.mu.Lock()
	e, ok := s.entries[auctionID]
	if !ok {
		e = &entry{}
		s.entries[auctionID] = e
	}
	startGen := e.gen
	s.mu.Unlock()

	snap, err := s.fetch(ctx, auctionID)

	s.mu.Lock()
	e.refreshing = false
	if err != nil {
		s.mu.Unlock()
		return domain.AuctionSnapshot{}, fmt.Errorf("snapshot store: fetch %s: %w", auctionID, err)
	}
	e.snap = snap
	e.loaded = true
	if e.gen == startGen {
		e.stale = false
	} else {
		// invalidated again mid-fetch: keep the stale mark and go back for
		// the newer state
		e.refreshing = true
		go s.backgroundRefresh(auctionID)
	}
	s.mu.Unlock()

	if s.onRefresh != nil {
		s.onRefresh(snap)
	}
	return snap, nil
}
