package survey

import (
	"errors"
	"net/http"

	"obsdb/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/surveys
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, surveys, map[string]any{"total": len(surveys)})
}

// Summary handles GET /v1/surveys/{name}
func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	summary, err := h.service.Summary(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Survey not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, summary, nil)
}
