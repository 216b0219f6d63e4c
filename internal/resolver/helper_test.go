package resolver_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rohmanhakim/review-parser/internal/cache"
	"github.com/rohmanhakim/review-parser/internal/extractor"
	"github.com/rohmanhakim/review-parser/internal/fetcher"
	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/internal/resolver"
	"github.com/rohmanhakim/review-parser/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// fetcherMock is a testify mock for the fetcher.Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	domain string,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, domain)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

// validReviewPage is a minimal review page carrying both markup targets
const validReviewPage = `<!DOCTYPE html>
<html>
<head><title>example.com Reviews</title></head>
<body>
<p data-rating-typography="true">4.2</p>
<p class="typography_body-l__KUYFJ typography_appearance-subtle__8_H2l styles_text__W4hWi">Total 8,761 reviews</p>
</body>
</html>`

// setupFetcherMockWithPage sets up the fetcher mock to complete with a 2xx page
func setupFetcherMockWithPage(m *fetcherMock, domain string, body string) {
	result := fetcher.NewFetchResultForTest(
		"https://review-site.example/"+domain,
		fetcher.CategorySuccess,
		body,
		200,
		"text/html",
	)
	m.On("Fetch", mock.Anything, domain).Return(result, nil)
}

// setupFetcherMockWithStatus sets up the fetcher mock to complete outside 2xx
func setupFetcherMockWithStatus(m *fetcherMock, domain string, statusCode int) {
	result := fetcher.NewFetchResultForTest(
		"https://review-site.example/"+domain,
		fetcher.CategoryNotFound,
		"",
		statusCode,
		"text/html",
	)
	m.On("Fetch", mock.Anything, domain).Return(result, nil)
}

// setupFetcherMockWithError sets up the fetcher mock to fail in transport
func setupFetcherMockWithError(m *fetcherMock, domain string, cause fetcher.FetchErrorCause) {
	fetchError := &fetcher.FetchError{
		Message: "transport failed",
		Cause:   cause,
	}
	m.On("Fetch", mock.Anything, domain).Return(fetcher.FetchResult{}, fetchError)
}

// recordingSink is a test spy that captures metadata emissions. The mutex
// keeps it usable from the concurrency tests.
type recordingSink struct {
	metadata.NoopSink
	mu      sync.Mutex
	errors  []recordedError
	lookups []recordedLookup
	stores  []recordedStore
}

type recordedError struct {
	PackageName string
	Action      string
	Cause       metadata.ErrorCause
	ErrorString string
}

type recordedLookup struct {
	Domain string
	Hit    bool
}

type recordedStore struct {
	Domain      string
	ReviewCount int
	Rating      float64
}

func (s *recordingSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	errorString string,
	attrs []metadata.Attribute,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, recordedError{
		PackageName: packageName,
		Action:      action,
		Cause:       cause,
		ErrorString: errorString,
	})
}

func (s *recordingSink) RecordCacheLookup(domain string, hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, recordedLookup{Domain: domain, Hit: hit})
}

func (s *recordingSink) RecordCacheStore(domain string, reviewCount int, rating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = append(s.stores, recordedStore{
		Domain:      domain,
		ReviewCount: reviewCount,
		Rating:      rating,
	})
}

// newResolverForTest wires a resolver around the mocked fetcher, the real
// extractor and a real in-memory cache, so cache interactions stay observable.
func newResolverForTest(t *testing.T, fetcherMock *fetcherMock) (*resolver.Resolver, *recordingSink, *cache.MemoryCache) {
	t.Helper()
	sink := &recordingSink{}
	reviewExtractor := extractor.NewReviewExtractor(sink)
	memoryCache := cache.NewMemoryCache(16, time.Hour)
	r := resolver.NewResolverWithDeps(sink, fetcherMock, &reviewExtractor, memoryCache)
	return &r, sink, memoryCache
}
