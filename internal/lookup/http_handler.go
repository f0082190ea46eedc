package lookup

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"obsdb/internal/field"
	"obsdb/internal/httpx"
	"obsdb/internal/validation"
)

// FieldSearcher runs a cone search in degrees, closest fields first.
type FieldSearcher interface {
	Search(ctx context.Context, ra, dec, radius float64, limit, offset int) ([]field.Field, int, error)
}

// DefaultRadius is the search radius used by /v1/lookup/fields when none
// is given, in degrees.
const DefaultRadius = 2.0

type HTTPHandler struct {
	service  *Service
	fields   FieldSearcher
	pageSize int
}

func NewHTTPHandler(service *Service, fields FieldSearcher, pageSize int) *HTTPHandler {
	if pageSize <= 0 {
		pageSize = 200
	}
	return &HTTPHandler{service: service, fields: fields, pageSize: pageSize}
}

// Lookup handles GET /v1/lookup
func (h *HTTPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Lookup(r.Context(), Form{Name: r.URL.Query().Get("name")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, resp, nil)
}

// FieldsNear is the response of GET /v1/lookup/fields.
type FieldsNear struct {
	Position Position      `json:"position"`
	Radius   float64       `json:"radius"`
	Fields   []field.Field `json:"fields"`
}

type fieldsQuery struct {
	Radius float64 `json:"radius" validate:"gte=0,lte=360"`
}

// Fields handles GET /v1/lookup/fields
func (h *HTTPHandler) Fields(w http.ResponseWriter, r *http.Request) {
	q := fieldsQuery{Radius: DefaultRadius}
	if raw := r.URL.Query().Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters", []httpx.ErrorDetail{
				{Field: "radius", Message: "radius must be a number"},
			})
			return
		}
		q.Radius = v
	}
	// gte and lte both fail for NaN.
	if details := validation.Struct(q); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters", details)
		return
	}
	radius := q.Radius

	pos, err := h.service.Resolve(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page := httpx.ParsePage(r, h.pageSize)
	fields, total, err := h.fields.Search(r.Context(), pos.RA, pos.Dec, radius, page.Limit(), page.Offset())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, FieldsNear{Position: pos, Radius: radius, Fields: fields}, page.Meta(total))
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmptyName):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required", []httpx.ErrorDetail{
			{Field: "name", Message: "name is required"},
		})
	case errors.Is(err, ErrNotResolved):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		httpx.JSONError(w, r, http.StatusBadGateway, "LOOKUP_UNAVAILABLE", "Lookup service unavailable", nil)
	}
}
