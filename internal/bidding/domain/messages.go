package domain

// User-facing copy for each rejection kind and authority outcome code. Kept
// as plain tables so the wording can be tested and changed without touching
// the pipeline
const (
	MsgMissingAuctionID = "This auction is unavailable right now. Please reload the page."
	MsgRateLimited      = "You are bidding too fast. Please wait a minute and try again."
	MsgInvalidContact   = "Please check your name and email address."
	MsgInvalidAmount    = "Bid amount must be a positive number no greater than 1,000,000."
	MsgGenericRejection = "Your bid could not be placed. Please try again."
	MsgNetworkError     = "We could not reach the auction service. Please check your connection and try again."
)

var outcomeMessages = map[OutcomeCode]string{
	OutcomeAuctionEnded:   "This auction has ended.",
	OutcomeBelowIncrement: "Your bid does not meet the minimum increment.",
	OutcomeBidTooLow:      "Your bid is not higher than the current bid.",
	OutcomeNotFound:       "This auction could not be found.",
}

// MessageForOutcome translates an authority rejection code into user-facing
// text, falling back to generic copy for codes it does not know
func MessageForOutcome(code OutcomeCode) string {
	if msg, ok := outcomeMessages[code]; ok {
		return msg
	}
	return MsgGenericRejection
}
