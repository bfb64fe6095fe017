package common

import "github.com/csc-helpdesk/csc/internal/shared/constants"

// PageRequest is a normalized page/limit pair.
type PageRequest struct {
	Page     int
	PageSize int
}

// NormalizePage clamps page and size to the configured bounds.
func NormalizePage(page, size, def int) PageRequest {
	if page < 1 {
		page = constants.DefaultPage
	}
	if size < 1 {
		size = def
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}
	return PageRequest{Page: page, PageSize: size}
}

// ListResult is a page of items plus the unpaged total.
type ListResult[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}
