package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/authority"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/cache"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/ratelimit"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/receipt"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/validate"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// SubmitBidUseCase orchestrates one bid submission: admission limiting,
// validation, sanitization, privacy masking, the optimistic snapshot
// mutation, the authority call, and reconciliation. Check order is fixed:
// auction-id presence, then the limiter, then contact validation, then
// amount validation, then sanitize. A denied or invalid submission
// short-circuits before the authority and before any cache mutation, so
// there is nothing to reconcile on those paths
type SubmitBidUseCase struct {
	limiter    *ratelimit.Limiter
	reconciler *cache.Reconciler
	acceptor   authority.Acceptor
	receipts   receipt.Store
	notifier   Notifier

	// deadline applied to the authority call; a hung request must not hold
	// the in-flight guard forever
	authorityTimeout time.Duration

	// one submission in flight per (auction, bidder) pair. Unrelated
	// bidders and auctions proceed concurrently; conflicts between them are
	// resolved by the authority's atomicity, never by this guard
	mu       sync.Mutex
	inflight map[string]struct{}

	now func() time.Time
}

// NewSubmitBidUseCase creates the pipeline with its collaborators injected
func NewSubmitBidUseCase(
	limiter *ratelimit.Limiter,
	reconciler *cache.Reconciler,
	acceptor authority.Acceptor,
	receipts receipt.Store,
	notifier Notifier,
	authorityTimeout time.Duration,
) *SubmitBidUseCase {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SubmitBidUseCase{
		limiter:          limiter,
		reconciler:       reconciler,
		acceptor:         acceptor,
		receipts:         receipts,
		notifier:         notifier,
		authorityTimeout: authorityTimeout,
		inflight:         make(map[string]struct{}),
		now:              time.Now,
	}
}

// Execute runs one submission through the pipeline. The returned error is a
// *domain.Rejection for every failure the user can act on, or
// domain.ErrSubmitInFlight when the same bidder already has a submission
// running against the same auction. On authority or transport failure the
// cache has already been scheduled for reconciliation before the error is
// returned
func (uc *SubmitBidUseCase) Execute(ctx context.Context, sub domain.BidSubmission) (domain.Outcome, error) {
	auctionID := strings.TrimSpace(sub.AuctionID)
	if auctionID == "" {
		return domain.Outcome{}, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindMissingAuctionID,
			UserMessage: domain.MsgMissingAuctionID,
			Err:         domain.ErrMissingAuctionID,
		})
	}

	email := strings.ToLower(strings.TrimSpace(sub.BidderEmail))
	key := ratelimit.BidKey(auctionID, email)

	if !uc.acquire(key) {
		log.Warn("Duplicate bid submission blocked",
			zap.String("auctionID", auctionID),
		)
		return domain.Outcome{}, domain.ErrSubmitInFlight
	}
	defer uc.release(key)

	// limiter runs before validation: even a malformed submission burns an
	// attempt, so a misbehaving script cannot retry for free
	if !uc.limiter.Allow(key) {
		return domain.Outcome{}, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindRateLimited,
			UserMessage: domain.MsgRateLimited,
			Err:         domain.ErrRateLimited,
		})
	}

	contact := validate.ValidateContactInfo(validate.ContactInfo{
		Name:  sub.BidderName,
		Email: sub.BidderEmail,
	})
	if !contact.IsValid {
		return domain.Outcome{}, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindInvalidContact,
			UserMessage: domain.MsgInvalidContact,
			FieldErrors: contact.Errors,
			Err:         domain.ErrInvalidContact,
		})
	}

	// bounds are checked on the rounded amount, the one the authority will
	// see: 0.004 rounds to zero and must not pass, 1000000.004 rounds to
	// the cap and must
	amount := sub.Amount.Round(2)
	if !validate.ValidAmount(amount) {
		return domain.Outcome{}, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindInvalidAmount,
			UserMessage: domain.MsgInvalidAmount,
			Err:         domain.ErrInvalidAmount,
		})
	}

	bid := domain.SanitizedBid{
		AuctionID:   auctionID,
		BidderName:  validate.SanitizeText(sub.BidderName, domain.MaxBidderNameLen),
		BidderEmail: email,
		Amount:      amount,
	}
	masked := domain.MaskBidder(bid.BidderName, bid.BidderEmail)

	// speculative update first, so the submitting view reflects the bid
	// immediately. From here on, reconciliation must follow every outcome
	uc.reconciler.ApplyOptimistic(auctionID, masked, bid.Amount)

	callCtx, cancel := context.WithTimeout(ctx, uc.authorityTimeout)
	defer cancel()

	outcome, err := uc.acceptor.PlaceBid(callCtx, auctionID, masked, bid.Amount)

	// the call has settled one way or the other, discard speculative state
	uc.reconciler.Reconcile(auctionID)

	if err != nil {
		log.Error("Authority call failed",
			zap.String("auctionID", auctionID),
			zap.String("amount", bid.Amount.String()),
			zap.Error(err),
		)
		return domain.Outcome{}, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindNetworkError,
			UserMessage: domain.MsgNetworkError,
			Err:         err,
		})
	}

	if !outcome.Success {
		return outcome, uc.reject(auctionID, &domain.Rejection{
			Kind:        domain.KindAuthorityReject,
			UserMessage: domain.MessageForOutcome(outcome.Code),
			Err:         domain.ErrAuthorityRejected,
		})
	}

	uc.storeReceipt(ctx, bid)
	uc.notifier.NotifyAccepted(auctionID, outcome.Message)

	log.Info("Bid submission accepted",
		zap.String("auctionID", auctionID),
		zap.String("bidder", string(masked)),
		zap.String("amount", bid.Amount.String()),
	)
	return outcome, nil
}

// acquire marks the (auction, bidder) key in flight. Returns false when a
// submission for the same key is already running
func (uc *SubmitBidUseCase) acquire(key string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inflight[key]; busy {
		return false
	}
	uc.inflight[key] = struct{}{}
	return true
}

func (uc *SubmitBidUseCase) release(key string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inflight, key)
}

// reject notifies the user and returns the rejection for the caller
func (uc *SubmitBidUseCase) reject(auctionID string, rej *domain.Rejection) error {
	uc.notifier.NotifyRejected(auctionID, rej.Kind, rej.UserMessage)
	return rej
}

// storeReceipt records the accepted bid for later "am I leading" lookups.
// The receipt is a heuristic; failing to write it never fails the submission
func (uc *SubmitBidUseCase) storeReceipt(ctx context.Context, bid domain.SanitizedBid) {
	err := uc.receipts.Put(ctx, domain.BidReceipt{
		AuctionID:     bid.AuctionID,
		BidderEmail:   bid.BidderEmail,
		LastBidAmount: bid.Amount,
		Timestamp:     uc.now(),
	})
	if err != nil {
		log.Warn("Failed to store bid receipt",
			zap.String("auctionID", bid.AuctionID),
			zap.Error(err),
		)
	}
}
