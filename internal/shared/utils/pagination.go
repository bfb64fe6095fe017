package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

// PageQuery is the page window requested by a list endpoint.
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and limit with the default list sizes.
func ParsePagination(c *gin.Context) PageQuery {
	return ParsePaginationWithLimits(c, constants.DefaultPageSize, constants.MaxPageSize)
}

// ParsePaginationWithLimits reads page and limit (page_size is accepted as a
// fallback). Non-numeric or non-positive values fall back to the defaults and
// the size is capped at maxPageSize.
func ParsePaginationWithLimits(c *gin.Context, defaultPageSize, maxPageSize int) PageQuery {
	q := PageQuery{
		Page:     positiveQuery(c, "page"),
		PageSize: positiveQuery(c, "limit"),
	}
	if q.Page == 0 {
		q.Page = constants.DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = positiveQuery(c, "page_size")
	}
	switch {
	case q.PageSize == 0:
		q.PageSize = defaultPageSize
	case q.PageSize > maxPageSize:
		q.PageSize = maxPageSize
	}
	return q
}

// positiveQuery returns the query value as a positive int, or 0.
func positiveQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// TotalPages is ceil(total/pageSize), with an empty result still reported as
// one page.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total-1)/int64(pageSize)) + 1
}
