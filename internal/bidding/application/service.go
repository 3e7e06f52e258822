package application

import (
	"context"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/cache"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/receipt"
)

// BidService is the application interface of the bidding module, exposed to
// the infra layer (HTTP handlers, websocket handlers)
type BidService interface {
	// SubmitBid runs one submission through the admission pipeline
	SubmitBid(ctx context.Context, sub domain.BidSubmission) (domain.Outcome, error)
	// AuctionState returns the cached snapshot, fetching when missing or stale
	AuctionState(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error)
	// IsUserHighestBidder answers the gateway-local leader heuristic
	IsUserHighestBidder(ctx context.Context, auctionID, email string) (bool, error)
}

type bidService struct {
	submitUC  *SubmitBidUseCase
	snapshots *cache.Store
	receipts  receipt.Store
}

// NewBidService wires the use cases behind the service interface
func NewBidService(submitUC *SubmitBidUseCase, snapshots *cache.Store, receipts receipt.Store) BidService {
	return &bidService{
		submitUC:  submitUC,
		snapshots: snapshots,
		receipts:  receipts,
	}
}

func (s *bidService) SubmitBid(ctx context.Context, sub domain.BidSubmission) (domain.Outcome, error) {
	return s.submitUC.Execute(ctx, sub)
}

func (s *bidService) AuctionState(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	return s.snapshots.Get(ctx, auctionID)
}

func (s *bidService) IsUserHighestBidder(ctx context.Context, auctionID, email string) (bool, error) {
	return receipt.IsUserHighestBidder(ctx, s.receipts, auctionID, email)
}
