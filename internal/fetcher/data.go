package fetcher

// HTTP boundary

// StatusCategory classifies completed responses from the review site.
//
// A completed response is never an error. Anything outside 2xx, not only
// 404, means the site carries no review page for the requested domain and
// is categorized CategoryNotFound. Transport failures never produce a
// category; they surface as FetchError.
type StatusCategory int

const (
	CategorySuccess StatusCategory = iota
	CategoryNotFound
)

type FetchResult struct {
	fetchUrl string
	category StatusCategory
	body     string
	meta     ResponseMeta
}

func (f *FetchResult) FetchURL() string {
	return f.fetchUrl
}

func (f *FetchResult) Category() StatusCategory {
	return f.category
}

// Body is the page HTML. It is empty for CategoryNotFound: bodies of
// non-2xx responses are never read.
func (f *FetchResult) Body() string {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

func (f *FetchResult) BodyHash() string {
	return f.meta.bodyHash
}

type ResponseMeta struct {
	statusCode          int
	contentType         string
	transferredSizeByte uint64
	bodyHash            string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	fetchUrl string,
	category StatusCategory,
	body string,
	statusCode int,
	contentType string,
) FetchResult {
	return FetchResult{
		fetchUrl: fetchUrl,
		category: category,
		body:     body,
		meta: ResponseMeta{
			statusCode:          statusCode,
			contentType:         contentType,
			transferredSizeByte: uint64(len(body)),
		},
	}
}
