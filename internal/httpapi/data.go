package httpapi

import (
	"context"

	"github.com/rohmanhakim/review-parser/internal/extractor"
	"github.com/rohmanhakim/review-parser/pkg/failure"
)

// ErrorResponse is the JSON error body of the parse API. The shape
// {domain, status, message} is part of the public contract.
type ErrorResponse struct {
	Domain  string `json:"domain"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Resolver is the lookup contract the API serves. Satisfied by
// resolver.Resolver; tests substitute stubs.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (extractor.Result, failure.ClassifiedError)
}
