package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
)

// Structural check only: something@something.tld. Deliverability is not this
// layer's problem
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactInfo is the bidder-supplied identity fields checked before a bid may
// proceed
type ContactInfo struct {
	Name  string
	Email string
}

// ContactResult reports whether contact info passed validation, with one
// entry per failed field
type ContactResult struct {
	IsValid bool
	Errors  []string
}

// ValidateContactInfo checks presence and structural validity of name and
// email. It never mutates its input; sanitization is a separate step. The
// presence check runs on the control-stripped name, so a name that would
// sanitize down to nothing fails here instead of slipping through
func ValidateContactInfo(info ContactInfo) ContactResult {
	var errs []string

	if strings.TrimSpace(stripControl(info.Name)) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(info.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "email is not a valid address")
	}

	return ContactResult{IsValid: len(errs) == 0, Errors: errs}
}

func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// SanitizeText trims surrounding whitespace, strips control characters and
// truncates to maxLen runes
func SanitizeText(text string, maxLen int) string {
	cleaned := strings.TrimSpace(stripControl(text))

	runes := []rune(cleaned)
	if len(runes) > maxLen {
		cleaned = string(runes[:maxLen])
	}
	return cleaned
}

// ValidAmount reports whether a bid amount is within bounds: strictly
// positive and no greater than domain.MaxBidAmount
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(domain.MaxBidAmount)
}
