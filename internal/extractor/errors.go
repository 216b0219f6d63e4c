package extractor

import (
	"fmt"

	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseMissingField   = "missing field"
	ErrCauseMalformedField = "malformed field"
)

// Field names reported by extraction failures. They match the JSON keys of
// Result so API clients can correlate a failure with the field it concerns.
const (
	FieldRating      = "rating"
	FieldReviewCount = "reviewCount"
)

// ExtractionError reports a page that was fetched but does not yield a
// usable Result. RawText carries the offending text for malformed fields
// and is empty for missing ones.
type ExtractionError struct {
	Field   string
	RawText string
	Cause   ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	if e.Cause == ErrCauseMalformedField {
		return fmt.Sprintf("extraction error: %s: %s: %q", e.Cause, e.Field, e.RawText)
	}
	return fmt.Sprintf("extraction error: %s: %s", e.Cause, e.Field)
}

// Extraction failures are scoped to a single request. The service keeps
// serving other domains.
func (e *ExtractionError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func newMissingField(field string) *ExtractionError {
	return &ExtractionError{
		Field: field,
		Cause: ErrCauseMissingField,
	}
}

func newMalformedField(field string, rawText string) *ExtractionError {
	return &ExtractionError{
		Field:   field,
		RawText: rawText,
		Cause:   ErrCauseMalformedField,
	}
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseMissingField, ErrCauseMalformedField:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
