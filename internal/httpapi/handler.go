package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohmanhakim/review-parser/internal/extractor"
	"github.com/rohmanhakim/review-parser/internal/fetcher"
	"github.com/rohmanhakim/review-parser/internal/resolver"
	"github.com/rohmanhakim/review-parser/pkg/failure"
)

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")

	result, resolveErr := s.resolver.Resolve(r.Context(), domain)
	if resolveErr != nil {
		writeError(w, domain, resolveErr)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "up",
	})
}

// writeError maps classified lookup errors onto the API contract:
// - domain has no review page  → 404
// - transport failed upstream  → 502
// - page content unusable      → 502
// - anything else              → 500
func writeError(w http.ResponseWriter, domain string, resolveErr failure.ClassifiedError) {
	var notFoundError *resolver.DomainNotFoundError
	var fetchError *fetcher.FetchError
	var extractionError *extractor.ExtractionError

	switch {
	case errors.As(resolveErr, &notFoundError):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Domain:  domain,
			Status:  http.StatusNotFound,
			Message: notFoundError.Message,
		})
	case errors.As(resolveErr, &fetchError):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Domain:  domain,
			Status:  http.StatusBadGateway,
			Message: fetchError.Error(),
		})
	case errors.As(resolveErr, &extractionError):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Domain:  domain,
			Status:  http.StatusBadGateway,
			Message: extractionError.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Domain:  domain,
			Status:  http.StatusInternalServerError,
			Message: resolveErr.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
