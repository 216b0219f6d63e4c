package resolver

import (
	"context"
	"strconv"
	"time"

	"github.com/rohmanhakim/review-parser/internal/cache"
	"github.com/rohmanhakim/review-parser/internal/config"
	"github.com/rohmanhakim/review-parser/internal/extractor"
	"github.com/rohmanhakim/review-parser/internal/fetcher"
	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/pkg/failure"
)

/*
 Resolver is the sole control-plane authority of a rating lookup.

 Lookup guarantees:
 - Resolver is the ONLY component allowed to decide whether a lookup is
   served from cache or goes upstream.
 - A cache hit short-circuits the lookup. No fetch and no extraction
   happen for a hit, and the hit refreshes the entry's idle clock.
 - Only fully extracted results may enter the cache. A failed lookup of
   any kind never stores anything.
 - Pipeline stages (fetcher, extractor) may detect and classify
   failure, but must never decide fallback, caching, or retry.
 - The check-miss-fetch-store sequence is not atomic per key. Two
   concurrent lookups of the same absent key may both go upstream and
   both store; last write wins. Accepted inefficiency.

 Metadata emission is observational only and MUST NOT influence lookup
 outcomes.

 Resolver Responsibilities:
 - Coordinate the cache-then-fetch-then-extract pipeline
 - Keep the cache populated only by successful lookups
 - Translate a completed non-2xx upstream response into the terminal
   not-found outcome
*/

type Resolver struct {
	metadataSink metadata.MetadataSink
	pageFetcher  fetcher.Fetcher
	extractor    extractor.Extractor
	cache        cache.Cache
}

func NewResolver(cfg config.Config, metadataSink metadata.MetadataSink) Resolver {
	pageFetcher := fetcher.NewPageFetcher(
		metadataSink,
		cfg.BaseUrl(),
		cfg.UserAgent(),
		cfg.FetchTimeout(),
	)
	reviewExtractor := extractor.NewReviewExtractorWithTargets(metadataSink, extractor.Targets{
		RatingAttribute:   cfg.RatingAttribute(),
		ReviewsCountClass: cfg.ReviewsCountClass(),
	})
	resultCache := cache.NewMemoryCache(cfg.CacheMaxEntries(), cfg.CacheExpiry())
	return Resolver{
		metadataSink: metadataSink,
		pageFetcher:  &pageFetcher,
		extractor:    &reviewExtractor,
		cache:        resultCache,
	}
}

// NewResolverWithDeps creates a Resolver with injected dependencies for
// testing. This constructor allows tests to provide mock implementations
// of the pipeline stages to verify behavior without relying on real
// infrastructure.
func NewResolverWithDeps(
	metadataSink metadata.MetadataSink,
	pageFetcher fetcher.Fetcher,
	reviewExtractor extractor.Extractor,
	resultCache cache.Cache,
) Resolver {
	return Resolver{
		metadataSink: metadataSink,
		pageFetcher:  pageFetcher,
		extractor:    reviewExtractor,
		cache:        resultCache,
	}
}

// Resolve returns the rating info for domain, serving from cache when a
// live entry exists and going upstream otherwise.
//
// This function is the single lookup choke point of the system:
// - Only the resolver reads or writes the cache
// - Only the resolver interprets fetch status categories
// - Handlers see a Result or a classified error, nothing in between
func (r *Resolver) Resolve(ctx context.Context, domain string) (extractor.Result, failure.ClassifiedError) {
	callerMethod := "Resolver.Resolve"

	// An empty key can never have a review page. Rejecting it here keeps
	// the request from ever reaching the review site.
	if domain == "" {
		resolveError := NewDomainNotFoundError(domain, 0)
		r.recordNotFound(callerMethod, resolveError)
		return extractor.Result{}, resolveError
	}

	if cached, ok := r.cache.Get(domain); ok {
		r.metadataSink.RecordCacheLookup(domain, true)
		return cached, nil
	}
	r.metadataSink.RecordCacheLookup(domain, false)

	fetchResult, fetchError := r.pageFetcher.Fetch(ctx, domain)
	if fetchError != nil {
		// metadata already emitted by fetcher
		return extractor.Result{}, fetchError
	}

	// A completed response outside 2xx means the review site has no page
	// for this domain. Terminal outcome, nothing enters the cache.
	if fetchResult.Category() != fetcher.CategorySuccess {
		resolveError := NewDomainNotFoundError(domain, fetchResult.Code())
		r.recordNotFound(callerMethod, resolveError)
		return extractor.Result{}, resolveError
	}

	result, extractionError := r.extractor.Extract(fetchResult.FetchURL(), fetchResult.Body())
	if extractionError != nil {
		// metadata already emitted by extractor
		return extractor.Result{}, extractionError
	}

	r.cache.Put(domain, result)
	r.metadataSink.RecordCacheStore(domain, result.ReviewCount, result.Rating)

	return result, nil
}

func (r *Resolver) recordNotFound(callerMethod string, resolveError *DomainNotFoundError) {
	r.metadataSink.RecordError(
		time.Now(),
		"resolver",
		callerMethod,
		metadata.CauseDomainNotFound,
		resolveError.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrDomain, resolveError.Domain),
			metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(resolveError.StatusCode)),
		},
	)
}
