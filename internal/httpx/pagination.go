package httpx

import (
	"net/http"
	"strconv"
)

// MaxPageSize caps page_size on every list endpoint.
const MaxPageSize = 1000

// MaxPage caps page so that Offset stays far from overflow. Pages past
// the data are simply empty.
const MaxPage = 1_000_000

// Page is the page/page_size pair of a list request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Meta is PageMeta for this page.
func (p Page) Meta(total int) map[string]any {
	return PageMeta(p.Number, p.Size, total)
}

// ParsePage reads page and page_size from the query string. Missing or
// unusable values fall back to page 1 and defaultSize.
func ParsePage(r *http.Request, defaultSize int) Page {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = defaultSize
	}
	return Page{Number: page, Size: pageSize}
}
