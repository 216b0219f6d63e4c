package metadata

import (
	"log/slog"
	"strconv"
	"time"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Cache lookup outcomes

Logging Goals
- Debuggable resolve behavior
- Post-hoc auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (domain keys)

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not change resolve outcomes
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence resolve decisions.
*/

/*
Recorder captures structured resolve events.
It must not:
- perform I/O decisions
- affect control flow
- leak backend details to callers
Ordering guarantees:
- Events are recorded synchronously in the order they are received within a single request.
- No global ordering across concurrent requests is guaranteed.
- Consumers MUST NOT assume total ordering across the service.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	record := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}

	logAttrs := make([]any, 0, 8+2*len(record.attrs))
	logAttrs = append(logAttrs,
		"package", record.packageName,
		"action", record.action,
		"cause", record.cause.String(),
		"error", record.errorString,
	)
	for _, attr := range record.attrs {
		logAttrs = append(logAttrs, string(attr.Key), attr.Value)
	}
	r.logger.Error("error observed", logAttrs...)

	errorsTotal.WithLabelValues(record.cause.String()).Inc()
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	bodyHash string,
) {
	event := FetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		bodyHash:    bodyHash,
	}

	r.logger.Info("response received from review site",
		"url", event.fetchUrl,
		"status", event.httpStatus,
		"duration_ms", event.duration.Milliseconds(),
		"content_type", event.contentType,
		"body_hash", event.bodyHash,
	)

	fetchesTotal.WithLabelValues(strconv.Itoa(event.httpStatus)).Inc()
	fetchDuration.Observe(event.duration.Seconds())
}

func (r *Recorder) RecordCacheLookup(domain string, hit bool) {
	event := CacheLookupEvent{
		domain: domain,
		hit:    hit,
	}

	outcome := "miss"
	if event.hit {
		outcome = "hit"
	}

	r.logger.Info("cache lookup",
		"domain", event.domain,
		"outcome", outcome,
	)

	cacheLookups.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordCacheStore(domain string, reviewCount int, rating float64) {
	event := CacheStoreEvent{
		domain:      domain,
		reviewCount: reviewCount,
		rating:      rating,
	}

	r.logger.Info("rating info about domain put in cache",
		"domain", event.domain,
		"review_count", event.reviewCount,
		"rating", event.rating,
	)

	cacheStores.Inc()
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		bodyHash string,
	)

	RecordCacheLookup(domain string, hit bool)

	RecordCacheStore(domain string, reviewCount int, rating float64)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Resolver (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {

}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	bodyHash string,
) {
}

func (n *NoopSink) RecordCacheLookup(domain string, hit bool) {}

func (n *NoopSink) RecordCacheStore(domain string, reviewCount int, rating float64) {}
