package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/portfolio-builder/internal/types"
)

var (
	addressWords = regexp.MustCompile(`(?i)\b(house|street|road|avenue|blvd|apt|apartment|suite|unit)\b`)
	digitRun     = regexp.MustCompile(`\d{3,}`)
)

// CheckName rejects degraded extractions: a missing or placeholder name, or a name
// that looks like a postal address.
func CheckName(p *types.PortfolioData) error {
	if !p.HasRealName() {
		return &ExtractionError{Reason: ReasonMissingName, Message: "no name in extracted portfolio"}
	}
	if addressWords.MatchString(p.FullName) || digitRun.MatchString(p.FullName) {
		return &ExtractionError{Reason: ReasonAddressName, Message: "extracted name looks like an address"}
	}
	return nil
}

// CheckEmail rejects a portfolio whose e-mail differs from the account's, ignoring case.
// An empty account e-mail disables the check.
func CheckEmail(p *types.PortfolioData, accountEmail string) error {
	accountEmail = strings.TrimSpace(accountEmail)
	if accountEmail == "" {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(p.Email), accountEmail) {
		return &ExtractionError{Reason: ReasonEmailMismatch, Message: "resume e-mail does not match account"}
	}
	return nil
}
