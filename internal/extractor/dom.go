package extractor

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/review-parser/internal/metadata"
	"github.com/rohmanhakim/review-parser/pkg/failure"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse HTML into a DOM tree
- Locate the rating element by its data attribute
- Locate the review-count element by its class signature
- Convert raw markup text into typed values

Extraction Strategy
- Rating: text of the first element carrying the configured rating
  attribute, trimmed, parsed as a decimal number
- Review count: text of the first element carrying every class in the
  configured class signature, stripped to digits, parsed as an integer
- Rating is resolved first; the first failure ends extraction

No fallback heuristics. A page that does not carry the expected markup is
reported as missing the field. Extraction never coerces absent or broken
markup into zero values.
*/

type Extractor interface {
	Extract(sourceUrl string, htmlBody string) (Result, failure.ClassifiedError)
}

var nonDigits = regexp.MustCompile("[^0-9]")

type ReviewExtractor struct {
	metadataSink metadata.MetadataSink
	targets      Targets
}

func NewReviewExtractor(
	metadataSink metadata.MetadataSink,
) ReviewExtractor {
	return NewReviewExtractorWithTargets(metadataSink, DefaultTargets())
}

// NewReviewExtractorWithTargets creates a ReviewExtractor reading custom
// markup targets, for deployments tracking a newer site build than the
// defaults.
func NewReviewExtractorWithTargets(
	metadataSink metadata.MetadataSink,
	targets Targets,
) ReviewExtractor {
	return ReviewExtractor{
		metadataSink: metadataSink,
		targets:      targets,
	}
}

func (d *ReviewExtractor) Extract(
	sourceUrl string,
	htmlBody string,
) (Result, failure.ClassifiedError) {
	result, err := d.extract(htmlBody)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"ReviewExtractor.Extract",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, sourceUrl),
				metadata.NewAttr(metadata.AttrField, extractionError.Field),
				metadata.NewAttr(metadata.AttrRawText, extractionError.RawText),
			},
		)
		return Result{}, extractionError
	}
	return result, nil
}

func (d *ReviewExtractor) extract(htmlBody string) (Result, error) {
	// Parse HTML. The parser is tolerant and builds a tree for almost any
	// input; a body it rejects outright carries no rating markup either.
	doc, err := html.Parse(strings.NewReader(htmlBody))
	if err != nil {
		return Result{}, newMissingField(FieldRating)
	}

	// Use goquery as convenience wrapper
	gqDoc := goquery.NewDocumentFromNode(doc)

	rating, extractionErr := d.extractRating(gqDoc)
	if extractionErr != nil {
		return Result{}, extractionErr
	}

	reviewCount, extractionErr := d.extractReviewCount(gqDoc)
	if extractionErr != nil {
		return Result{}, extractionErr
	}

	return Result{
		ReviewCount: reviewCount,
		Rating:      rating,
	}, nil
}

// extractRating reads the first element carrying the rating attribute and
// parses its text as a decimal number.
func (d *ReviewExtractor) extractRating(gqDoc *goquery.Document) (float64, *ExtractionError) {
	ratingEl := gqDoc.Find(d.targets.ratingSelector()).First()
	if ratingEl.Length() == 0 {
		return 0, newMissingField(FieldRating)
	}

	ratingText := strings.TrimSpace(ratingEl.Text())
	rating, err := strconv.ParseFloat(ratingText, 64)
	if err != nil {
		return 0, newMalformedField(FieldRating, ratingText)
	}

	return rating, nil
}

// extractReviewCount reads the first element carrying the full review-count
// class signature, strips every non-digit from its text ("1,234 total" →
// "1234"), and parses the remainder as an integer.
//
// Stripping can leave an empty string ("no reviews yet" strips to "").
// That is reported as malformed, carrying the stripped text, not coerced
// to zero.
func (d *ReviewExtractor) extractReviewCount(gqDoc *goquery.Document) (int, *ExtractionError) {
	reviewsEl := gqDoc.Find(d.targets.reviewsSelector()).First()
	if reviewsEl.Length() == 0 {
		return 0, newMissingField(FieldReviewCount)
	}

	digits := nonDigits.ReplaceAllString(reviewsEl.Text(), "")
	reviewCount, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newMalformedField(FieldReviewCount, digits)
	}

	return reviewCount, nil
}
