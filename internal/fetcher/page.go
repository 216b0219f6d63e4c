package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/pkg/failure"
	"github.com/rohmanhakim/review-parser/pkg/hashutil"
)

/*
Responsibilities

- Perform HTTP requests against the review site
- Apply headers and timeouts
- Classify completed responses by status
- Report transport failures

Fetch Semantics

- The page URL is the configured base URL with the domain key appended
  verbatim; the key is never re-encoded, lowercased, or normalized
- A completed 2xx response carries the page body
- A completed non-2xx response is categorized CategoryNotFound and its
  body is not read
- All completed fetches are logged with metadata

The fetcher never parses content; it only returns the body and metadata.
*/

type PageFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	baseUrl      string
	userAgent    string
}

func NewPageFetcher(
	metadataSink metadata.MetadataSink,
	baseUrl string,
	userAgent string,
	timeout time.Duration,
) PageFetcher {
	return NewPageFetcherWithClient(
		metadataSink,
		&http.Client{Timeout: timeout},
		baseUrl,
		userAgent,
	)
}

// NewPageFetcherWithClient creates a PageFetcher with an injected HTTP
// client, for tests that point the fetcher at a local server or stub
// transport.
func NewPageFetcherWithClient(
	metadataSink metadata.MetadataSink,
	httpClient *http.Client,
	baseUrl string,
	userAgent string,
) PageFetcher {
	return PageFetcher{
		metadataSink: metadataSink,
		httpClient:   httpClient,
		baseUrl:      baseUrl,
		userAgent:    userAgent,
	}
}

func (f *PageFetcher) Fetch(
	ctx context.Context,
	domain string,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "PageFetcher.Fetch"
	startTime := time.Now()

	result, err := f.performFetch(ctx, domain)

	duration := time.Since(startTime)

	// Record the fetch event with actual data. Transport failures record
	// a zero status: no response completed.
	var statusCode int
	var contentType string
	var bodyHash string

	if err == nil {
		statusCode = result.Code()
		contentType = result.ContentType()
		bodyHash = result.BodyHash()
	}

	f.metadataSink.RecordFetch(
		f.pageUrl(domain),
		statusCode,
		duration,
		contentType,
		bodyHash,
	)

	if err != nil {
		f.recordFetchError(callerMethod, f.pageUrl(domain), err)
		return FetchResult{}, err
	}

	return result, nil
}

// pageUrl appends the domain key to the configured base URL verbatim.
// The review site routes by the exact key: "example.com" and
// "Example.com" are different pages, so the key must survive unchanged.
func (f *PageFetcher) pageUrl(domain string) string {
	return f.baseUrl + domain
}

func (f *PageFetcher) recordFetchError(callerMethod string, fetchUrl string, err failure.ClassifiedError) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		// record fetch error event
		f.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fetchUrl),
			},
		)
	}
}

func (f *PageFetcher) performFetch(ctx context.Context, domain string) (FetchResult, failure.ClassifiedError) {
	targetUrl := f.pageUrl(domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetUrl, nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to create request: %v", err),
			Cause:   ErrCauseInvalidRequest,
			Err:     err,
		}
	}

	// Apply browser-like headers. Accept-Encoding is left to the transport
	// so response bodies arrive transparently decompressed.
	for key, value := range requestHeaders(f.userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return FetchResult{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	// Any completed non-2xx response means the site carries no review
	// page for the domain. The specific status code is preserved for
	// observability but never changes the category.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{
			fetchUrl: targetUrl,
			category: CategoryNotFound,
			meta: ResponseMeta{
				statusCode:  resp.StatusCode,
				contentType: resp.Header.Get("Content-Type"),
			},
		}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Cause:   ErrCauseReadResponseBodyError,
			Err:     err,
		}
	}

	bodyHash, hashErr := hashutil.HashBytes(body, hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		// Hash is observational only, an empty value never fails the fetch
		bodyHash = ""
	}

	return FetchResult{
		fetchUrl: targetUrl,
		category: CategorySuccess,
		body:     string(body),
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			contentType:         resp.Header.Get("Content-Type"),
			transferredSizeByte: uint64(len(body)),
			bodyHash:            bodyHash,
		},
	}, nil
}

// classifyTransportError maps a transport failure to a FetchError cause.
// Context deadline and cancellation are distinguished from network faults
// so callers can tell an impatient client from an unreachable site.
func classifyTransportError(err error) *FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &FetchError{
			Message: fmt.Sprintf("request timed out: %v", err),
			Cause:   ErrCauseTimeout,
			Err:     err,
		}
	case errors.Is(err, context.Canceled):
		return &FetchError{
			Message: fmt.Sprintf("request cancelled: %v", err),
			Cause:   ErrCauseCancelled,
			Err:     err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &FetchError{
			Message: fmt.Sprintf("request timed out: %v", err),
			Cause:   ErrCauseTimeout,
			Err:     err,
		}
	}

	return &FetchError{
		Message: fmt.Sprintf("request failed: %v", err),
		Cause:   ErrCauseNetworkFailure,
		Err:     err,
	}
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Connection":      "keep-alive",
	}
}
