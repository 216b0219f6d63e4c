package resolver

import (
	"fmt"

	"github.com/rohmanhakim/review-parser/pkg/failure"
)

// DomainIsNotFoundMessage is the stable consumer-facing message for a
// domain the review site has no page for. API clients match on the
// wording, so it never changes.
const DomainIsNotFoundMessage = "Domain is not found"

// DomainNotFoundError reports that the review site completed a response
// for the domain with a status outside the 2xx range. It is a normal,
// terminal lookup outcome, not an infrastructure failure. StatusCode
// carries the upstream status when one was observed and is zero when
// the lookup was rejected before any fetch.
type DomainNotFoundError struct {
	Domain     string
	StatusCode int
	Message    string
}

func NewDomainNotFoundError(domain string, statusCode int) *DomainNotFoundError {
	return &DomainNotFoundError{
		Domain:     domain,
		StatusCode: statusCode,
		Message:    DomainIsNotFoundMessage,
	}
}

func (e *DomainNotFoundError) Error() string {
	return fmt.Sprintf("resolver error: domain not found: %s", e.Domain)
}

// A missing domain only fails the request that asked for it. The
// service keeps serving other domains.
func (e *DomainNotFoundError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
