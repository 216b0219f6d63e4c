package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout               = "timeout"
	ErrCauseCancelled             = "cancelled"
	ErrCauseNetworkFailure        = "network issues"
	ErrCauseReadResponseBodyError = "failed to read response body"
	ErrCauseInvalidRequest        = "invalid request"
)

// FetchError reports a fetch that never produced a completed response.
// Completed responses, whatever their status code, are not FetchErrors;
// they come back as FetchResult with a StatusCategory.
type FetchError struct {
	Message string
	Cause   FetchErrorCause
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetch failures are scoped to a single request. The service keeps
// serving other domains.
func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseCancelled, ErrCauseNetworkFailure, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
