package domain

import "fmt"

// MaskedBidderIdentity is the display-safe, non-reversible form of a bidder's
// contact info, shown in public bid history. It never exposes the full email
// and must never be used for matching
type MaskedBidderIdentity string

// MaskBidder builds the public identity string "{name} ({first3(email)}****)"
func MaskBidder(name, email string) MaskedBidderIdentity {
	return MaskedBidderIdentity(fmt.Sprintf("%s (%s****)", name, emailPrefix(email)))
}

// emailPrefix returns the first three characters of the email, fewer if the
// address is shorter
func emailPrefix(email string) string {
	r := []rune(email)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
