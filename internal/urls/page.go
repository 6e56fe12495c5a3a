package urls

import (
	"net/http"
	"strconv"
)

// PageParam is the query parameter holding a 1-based page number.
const PageParam = "page"

// PageFromRequest returns the positive page number requested by r,
// 1 when absent or malformed.
func PageFromRequest(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get(PageParam))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
