package observation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"obsdb/internal/httpx"
	"obsdb/internal/validation"
)

type HTTPHandler struct {
	service  *Service
	pageSize int
}

func NewHTTPHandler(service *Service, pageSize int) *HTTPHandler {
	if pageSize <= 0 {
		pageSize = 200
	}
	return &HTTPHandler{service: service, pageSize: pageSize}
}

// List handles GET /v1/observations
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r, h.pageSize)

	obs, total, err := h.service.List(r.Context(), page.Limit(), page.Offset())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, obs, page.Meta(total))
}

// Get handles GET /v1/observations/{obsid}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), r.PathValue("obsid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, detail, nil)
}

// MarkInvalid handles POST /v1/observations/{obsid}/invalid
func (h *HTTPHandler) MarkInvalid(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.MarkInvalid(r.Context(), httpx.SubjectFrom(r), r.PathValue("obsid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, o, nil)
}

// Archive handles POST /v1/observations/{obsid}/archive
func (h *HTTPHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Site = strings.TrimSpace(req.Site)
	if details := validation.Struct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	o, err := h.service.Archive(r.Context(), httpx.SubjectFrom(r), r.PathValue("obsid"), req.Site)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, o, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidObsID):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid observation id", []httpx.ErrorDetail{
			{Field: "obsid", Message: "obsid must look like L12345"},
		})
	case errors.Is(err, ErrEmptySite):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", []httpx.ErrorDetail{
			{Field: "site", Message: "site is required"},
		})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Observation not found", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
