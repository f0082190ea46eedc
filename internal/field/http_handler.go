package field

import (
	"errors"
	"net/http"
	"strconv"

	"obsdb/internal/httpx"
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

// parseFloat reads an optional float query parameter.
func parseFloat(r *http.Request, key string) (*float64, *httpx.ErrorDetail) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &httpx.ErrorDetail{Field: key, Message: key + " must be a number"}
	}
	return &v, nil
}

// ParseFilter reads the field search form from the query string.
func ParseFilter(r *http.Request) (Filter, []httpx.ErrorDetail) {
	query := r.URL.Query()
	f := Filter{
		Survey:  query.Get("survey"),
		Status:  query.Get("status"),
		SortBy:  query.Get("sort_by"),
		Reverse: query.Get("reverse") == "true",
	}

	var details []httpx.ErrorDetail
	for _, p := range []struct {
		key string
		dst **float64
	}{
		{"ra", &f.RA},
		{"dec", &f.Dec},
		{"radius", &f.Radius},
	} {
		v, detail := parseFloat(r, p.key)
		if detail != nil {
			details = append(details, *detail)
			continue
		}
		*p.dst = v
	}
	if details != nil {
		return f, details
	}
	return f, f.Validate()
}

// List handles GET /v1/fields
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, details := ParseFilter(r)
	if details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters", details)
		return
	}
	page := httpx.ParsePage(r, h.pageSize)

	fields, total, err := h.service.List(r.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, fields, page.Meta(total))
}

// Get handles GET /v1/fields/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Field not found", nil)
		return
	}
	page := httpx.ParsePage(r, h.pageSize)

	detail, total, err := h.service.Detail(r.Context(), id, page.Limit(), page.Offset())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Field not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, detail, page.Meta(total))
}
