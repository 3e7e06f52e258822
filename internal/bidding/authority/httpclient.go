package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/shopspring/decimal"
)

// HTTPAcceptor talks JSON over HTTP to a remote authority. It performs no
// retries; a failed call surfaces as a transport error and the caller's
// reconciliation handles the cache. Deadlines come from the caller's context
type HTTPAcceptor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAcceptor creates a client for the authority at baseURL
func NewHTTPAcceptor(baseURL string) *HTTPAcceptor {
	return &HTTPAcceptor{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type placeBidRequest struct {
	Bidder string          `json:"bidder"`
	Amount decimal.Decimal `json:"amount"`
}

// PlaceBid posts the bid to the authority and decodes its structured outcome
func (h *HTTPAcceptor) PlaceBid(ctx context.Context, auctionID string, bidder domain.MaskedBidderIdentity, amount decimal.Decimal) (domain.Outcome, error) {
	body, err := json.Marshal(placeBidRequest{Bidder: string(bidder), Amount: amount})
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("authority client: encode bid: %w", err)
	}

	endpoint := fmt.Sprintf("%s/auctions/%s/bids", h.baseURL, url.PathEscape(auctionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("authority client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("authority client: place bid: %w", err)
	}
	defer resp.Body.Close()

	// the authority answers 200 for both accept and reject, the outcome body
	// carries the decision. Anything else is a transport-level failure
	if resp.StatusCode != http.StatusOK {
		return domain.Outcome{}, fmt.Errorf("authority client: unexpected status %d", resp.StatusCode)
	}

	var outcome domain.Outcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return domain.Outcome{}, fmt.Errorf("authority client: decode outcome: %w", err)
	}
	return outcome, nil
}

// FetchSnapshot retrieves the authoritative snapshot of one auction
func (h *HTTPAcceptor) FetchSnapshot(ctx context.Context, auctionID string) (domain.AuctionSnapshot, error) {
	endpoint := fmt.Sprintf("%s/auctions/%s", h.baseURL, url.PathEscape(auctionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("authority client: build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("authority client: fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.AuctionSnapshot{}, domain.ErrAuctionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.AuctionSnapshot{}, fmt.Errorf("authority client: unexpected status %d", resp.StatusCode)
	}

	var snap domain.AuctionSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return domain.AuctionSnapshot{}, fmt.Errorf("authority client: decode snapshot: %w", err)
	}
	return snap, nil
}
