package domain

// OutcomeCode is the structured result tag returned by the authority. It is
// the only thing the gateway branches on; the authority's free-text message
// is carried along for logging but user-facing copy comes from the
// translation table in messages.go
type OutcomeCode string

const (
	OutcomeAccepted       OutcomeCode = "ACCEPTED"
	OutcomeAuctionEnded   OutcomeCode = "AUCTION_ENDED"
	OutcomeBelowIncrement OutcomeCode = "BELOW_INCREMENT"
	OutcomeBidTooLow      OutcomeCode = "BID_TOO_LOW"
	OutcomeNotFound       OutcomeCode = "AUCTION_NOT_FOUND"
	OutcomeRejected       OutcomeCode = "REJECTED" // generic refusal, no further detail
)

// Outcome is the authority's accept/reject decision, the sole ground truth
// for whether a bid was accepted. When Success is false the authority
// performed no side effects
type Outcome struct {
	Success bool        `json:"success"`
	Code    OutcomeCode `json:"code"`
	Message string      `json:"message"`
}
