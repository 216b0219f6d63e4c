package extractor

import "strings"

// Default markup targets on the review site.
//
// The rating lives in a data attribute; the review count lives in the text
// of an element carrying a generated class signature. Both are site-build
// artifacts and will drift when the site ships a new frontend build, so
// they are configurable and these values are only the defaults.
const (
	DefaultRatingAttribute   = "data-rating-typography"
	DefaultReviewsCountClass = "typography_body-l__KUYFJ typography_appearance-subtle__8_H2l styles_text__W4hWi"
)

// Targets names the markup the extractor reads. The review-count class is a
// space-separated class signature: an element matches when it carries every
// class in the signature, in any order.
type Targets struct {
	RatingAttribute   string
	ReviewsCountClass string
}

func DefaultTargets() Targets {
	return Targets{
		RatingAttribute:   DefaultRatingAttribute,
		ReviewsCountClass: DefaultReviewsCountClass,
	}
}

func (t Targets) ratingSelector() string {
	return "[" + t.RatingAttribute + "]"
}

// reviewsSelector compounds the class signature into a selector that requires
// all classes on one element: "a b c" becomes ".a.b.c".
func (t Targets) reviewsSelector() string {
	return "." + strings.Join(strings.Fields(t.ReviewsCountClass), ".")
}
