package metadata

import (
	"time"
)

type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	bodyHash    string
}

type CacheLookupEvent struct {
	domain string
	hit    bool
}

type CacheStoreEvent struct {
	domain      string
	reviewCount int
	rating      float64
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - Any use of metadata.ErrorCause outside logging, metrics, or reporting is a design violation.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used to shape HTTP responses.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.
	 - ErrorCause does not imply correctness of downstream behavior.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

Examples:
  - Unexpected internal errors
  - Unclassified third-party library failures

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - DNS resolution failures
  - Connection resets
  - Cancelled in-flight requests

# CauseDomainNotFound

Meaning:
  - The upstream site answered, but carries no page for the requested domain.

Examples:
  - HTTP 404 for an unknown domain key
  - Any non-2xx completed response from the review site

# CauseContentInvalid

Meaning:
  - Content was fetched but could not be processed meaningfully.

Examples:
  - Pages missing the rating or review-count markup
  - Rating text that does not parse as a number
  - Broken DOM preventing extraction
*/
const (
	CauseUnknown = iota
	CauseNetworkFailure
	CauseDomainNotFound
	CauseContentInvalid
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseDomainNotFound:
		return "domain_not_found"
	case CauseContentInvalid:
		return "content_invalid"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrDomain     AttributeKey = "domain"
	AttrField      AttributeKey = "field"
	AttrRawText    AttributeKey = "raw_text"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrHash       AttributeKey = "hash"
)
