package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hoaxify/hoaxify-api/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 10
)

type paginationKey struct{}

// Pagination normalizes the page and size query parameters before they reach
// a handler: unparseable or negative page becomes 0, size outside (0, 10]
// becomes 10.
func Pagination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 0 {
			page = 0
		}
		size, err := strconv.Atoi(r.URL.Query().Get("size"))
		if err != nil || size <= 0 || size > maxPageSize {
			size = defaultPageSize
		}

		p := domain.Pagination{Page: page, Size: size}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), paginationKey{}, p)))
	})
}

// GetPagination returns the sanitized values, defaulting when the middleware
// did not run (direct handler tests).
func GetPagination(r *http.Request) domain.Pagination {
	if p, ok := r.Context().Value(paginationKey{}).(domain.Pagination); ok {
		return p
	}
	return domain.Pagination{Page: 0, Size: defaultPageSize}
}
