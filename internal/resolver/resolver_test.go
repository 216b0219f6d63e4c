package resolver_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rohmanhakim/review-parser/internal/extractor"
	"github.com/rohmanhakim/review-parser/internal/fetcher"
	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/internal/resolver"
	"github.com/rohmanhakim/review-parser/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestResolve_CacheMiss_FetchesExtractsAndStores verifies the full miss path:
// the page is fetched, both fields extracted, and the result stored.
func TestResolve_CacheMiss_FetchesExtractsAndStores(t *testing.T) {
	// GIVEN: an empty cache and an upstream page for the domain
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithPage(mockFetcher, "example.com", validReviewPage)
	r, sink, memoryCache := newResolverForTest(t, mockFetcher)

	// WHEN: resolving the domain
	result, err := r.Resolve(context.Background(), "example.com")

	// THEN: the extracted result is returned
	require.NoError(t, err)
	assert.Equal(t, 4.2, result.Rating)
	assert.Equal(t, 8761, result.ReviewCount)

	// AND: the result entered the cache
	cached, ok := memoryCache.Get("example.com")
	require.True(t, ok, "expected result to be cached")
	assert.Equal(t, result, cached)

	// AND: the miss and the store were observed
	require.Len(t, sink.lookups, 1)
	assert.False(t, sink.lookups[0].Hit)
	require.Len(t, sink.stores, 1)
	assert.Equal(t, "example.com", sink.stores[0].Domain)
	assert.Equal(t, 8761, sink.stores[0].ReviewCount)
	assert.Equal(t, 4.2, sink.stores[0].Rating)
}

// TestResolve_CacheHit_SkipsFetch verifies a live cache entry short-circuits
// the lookup: no fetch, no extraction.
func TestResolve_CacheHit_SkipsFetch(t *testing.T) {
	// GIVEN: a cache already holding the domain
	mockFetcher := new(fetcherMock)
	r, sink, memoryCache := newResolverForTest(t, mockFetcher)
	memoryCache.Put("example.com", extractor.Result{ReviewCount: 42, Rating: 3.9})

	// WHEN: resolving the domain
	result, err := r.Resolve(context.Background(), "example.com")

	// THEN: the cached value comes back without any fetch
	require.NoError(t, err)
	assert.Equal(t, 42, result.ReviewCount)
	assert.Equal(t, 3.9, result.Rating)
	mockFetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)

	// AND: the hit was observed, and nothing was stored again
	require.Len(t, sink.lookups, 1)
	assert.True(t, sink.lookups[0].Hit)
	assert.Empty(t, sink.stores)
}

// TestResolve_SecondLookup_ServedFromCache verifies the fetch happens exactly
// once for repeated lookups of the same key.
func TestResolve_SecondLookup_ServedFromCache(t *testing.T) {
	mockFetcher := new(fetcherMock)
	fetchResult := fetcher.NewFetchResultForTest(
		"https://review-site.example/example.com",
		fetcher.CategorySuccess,
		validReviewPage,
		200,
		"text/html",
	)
	mockFetcher.On("Fetch", mock.Anything, "example.com").Return(fetchResult, nil).Once()
	r, sink, _ := newResolverForTest(t, mockFetcher)

	first, err := r.Resolve(context.Background(), "example.com")
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	mockFetcher.AssertExpectations(t)

	require.Len(t, sink.lookups, 2)
	assert.False(t, sink.lookups[0].Hit)
	assert.True(t, sink.lookups[1].Hit)
}

// TestResolve_CompletedNon2xx_ReturnsDomainNotFound verifies a completed
// upstream response outside 2xx resolves to the terminal not-found outcome.
func TestResolve_CompletedNon2xx_ReturnsDomainNotFound(t *testing.T) {
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithStatus(mockFetcher, "no-such-domain.example", 404)
	r, sink, memoryCache := newResolverForTest(t, mockFetcher)

	_, err := r.Resolve(context.Background(), "no-such-domain.example")

	require.Error(t, err)
	var notFound *resolver.DomainNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-domain.example", notFound.Domain)
	assert.Equal(t, 404, notFound.StatusCode)
	assert.Equal(t, "Domain is not found", notFound.Message)

	// Nothing entered the cache
	assert.Equal(t, 0, memoryCache.Size())

	// The not-found was observed with its canonical cause
	require.Len(t, sink.errors, 1)
	assert.Equal(t, "resolver", sink.errors[0].PackageName)
	assert.EqualValues(t, metadata.CauseDomainNotFound, sink.errors[0].Cause)
}

// TestResolve_AnyNon2xxStatusIsNotFound verifies 3xx, 4xx and 5xx alike map
// to not-found rather than to distinct failures.
func TestResolve_AnyNon2xxStatusIsNotFound(t *testing.T) {
	statuses := []int{301, 403, 429, 500, 503}

	for _, status := range statuses {
		mockFetcher := new(fetcherMock)
		setupFetcherMockWithStatus(mockFetcher, "example.com", status)
		r, _, _ := newResolverForTest(t, mockFetcher)

		_, err := r.Resolve(context.Background(), "example.com")

		var notFound *resolver.DomainNotFoundError
		require.ErrorAs(t, err, &notFound, "status %d should map to not-found", status)
		assert.Equal(t, status, notFound.StatusCode)
	}
}

// TestResolve_TransportFailurePropagates verifies transport failures surface
// unchanged and leave the cache alone.
func TestResolve_TransportFailurePropagates(t *testing.T) {
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithError(mockFetcher, "example.com", fetcher.ErrCauseNetworkFailure)
	r, sink, memoryCache := newResolverForTest(t, mockFetcher)

	_, err := r.Resolve(context.Background(), "example.com")

	var fetchError *fetcher.FetchError
	require.ErrorAs(t, err, &fetchError)
	assert.EqualValues(t, fetcher.ErrCauseNetworkFailure, fetchError.Cause)

	assert.Equal(t, 0, memoryCache.Size())
	// The fetcher already emitted its own error event. The resolver must
	// not add a second one on top.
	assert.Empty(t, sink.errors)
}

// TestResolve_ExtractionFailureNotCached verifies a page that fetches but
// does not parse never enters the cache.
func TestResolve_ExtractionFailureNotCached(t *testing.T) {
	pageWithoutRating := `<html><body>
<p class="typography_body-l__KUYFJ typography_appearance-subtle__8_H2l styles_text__W4hWi">1,234 reviews</p>
</body></html>`
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithPage(mockFetcher, "example.com", pageWithoutRating)
	r, sink, memoryCache := newResolverForTest(t, mockFetcher)

	_, err := r.Resolve(context.Background(), "example.com")

	var extractionError *extractor.ExtractionError
	require.ErrorAs(t, err, &extractionError)
	assert.EqualValues(t, extractor.ErrCauseMissingField, extractionError.Cause)
	assert.Equal(t, extractor.FieldRating, extractionError.Field)

	assert.Equal(t, 0, memoryCache.Size())
	assert.Empty(t, sink.stores)

	// The only error event came from the extractor itself
	require.Len(t, sink.errors, 1)
	assert.Equal(t, "extractor", sink.errors[0].PackageName)
}

// TestResolve_EmptyDomain_RejectedBeforeFetch verifies the empty key resolves
// to not-found without ever contacting the review site.
func TestResolve_EmptyDomain_RejectedBeforeFetch(t *testing.T) {
	mockFetcher := new(fetcherMock)
	r, _, memoryCache := newResolverForTest(t, mockFetcher)

	_, err := r.Resolve(context.Background(), "")

	var notFound *resolver.DomainNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 0, notFound.StatusCode)
	mockFetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	assert.Equal(t, 0, memoryCache.Size())
}

// TestResolve_KeysStayCaseSensitive verifies "example.com" and "Example.com"
// are distinct lookups all the way through: the cached entry for one never
// serves the other.
func TestResolve_KeysStayCaseSensitive(t *testing.T) {
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithPage(mockFetcher, "example.com", validReviewPage)
	setupFetcherMockWithStatus(mockFetcher, "Example.com", 404)
	r, _, _ := newResolverForTest(t, mockFetcher)

	_, err := r.Resolve(context.Background(), "example.com")
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "Example.com")

	var notFound *resolver.DomainNotFoundError
	require.ErrorAs(t, err, &notFound, "differently cased key must go upstream on its own")
}

// TestResolve_ConcurrentSameKey verifies concurrent lookups of one key are
// safe. Several may fetch (the miss race is accepted), all must succeed, and
// the cache ends up with exactly one entry.
func TestResolve_ConcurrentSameKey(t *testing.T) {
	mockFetcher := new(fetcherMock)
	setupFetcherMockWithPage(mockFetcher, "example.com", validReviewPage)
	r, _, memoryCache := newResolverForTest(t, mockFetcher)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := r.Resolve(context.Background(), "example.com")
			if err != nil {
				errs[i] = err
				return
			}
			if result.ReviewCount != 8761 {
				errs[i] = fmt.Errorf("unexpected review count %d", result.ReviewCount)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d", i)
	}
	assert.Equal(t, 1, memoryCache.Size())
}

// TestDomainNotFoundError_Severity verifies the not-found outcome never
// escalates beyond the request that produced it.
func TestDomainNotFoundError_Severity(t *testing.T) {
	err := resolver.NewDomainNotFoundError("example.com", 404)

	assert.Equal(t, failure.SeverityRecoverable, err.Severity())
}
