package fetcher

import (
	"context"

	"github.com/rohmanhakim/review-parser/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		domain string,
	) (FetchResult, failure.ClassifiedError)
}
