package domain

import "errors"

var (
	ErrMissingAuctionID  = errors.New("auction id is missing")
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrRateLimited       = errors.New("too many bid attempts")
	ErrInvalidContact    = errors.New("bidder contact info is invalid")
	ErrInvalidAmount     = errors.New("bid amount must be a positive number no greater than 1,000,000")
	ErrAuthorityRejected = errors.New("bid rejected by the auction authority")
	ErrSubmitInFlight    = errors.New("a bid submission is already in progress")
)

// RejectionKind is the fixed taxonomy every failed submission is classified
// into. It drives the user-facing message and nothing else
type RejectionKind string

const (
	KindMissingAuctionID RejectionKind = "missing_auction_id"
	KindRateLimited      RejectionKind = "rate_limited"
	KindInvalidContact   RejectionKind = "invalid_contact"
	KindInvalidAmount    RejectionKind = "invalid_amount"
	KindAuthorityReject  RejectionKind = "authority_rejection"
	KindNetworkError     RejectionKind = "network_error"
)

// Rejection is the terminal error of a failed submission: the taxonomy kind,
// the user-facing message, field-level detail for contact validation, and the
// underlying cause when one exists
type Rejection struct {
	Kind        RejectionKind
	UserMessage string
	FieldErrors []string
	Err         error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return string(r.Kind) + ": " + r.Err.Error()
	}
	return string(r.Kind) + ": " + r.UserMessage
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// AsRejection extracts a *Rejection from an error chain
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
