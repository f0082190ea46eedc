package overview

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

// Overview handles GET /v1/overview
func (h *HTTPHandler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Overview(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Target handles GET /v1/targets/{name}
func (h *HTTPHandler) Target(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.Resolve(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Target not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, target, nil)
}
