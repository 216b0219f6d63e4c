package extractor

// Result holds the rating information extracted from a domain's review page.
// It is the unit stored in the cache and returned to API clients.
type Result struct {
	ReviewCount int     `json:"reviewCount"`
	Rating      float64 `json:"rating"`
}
