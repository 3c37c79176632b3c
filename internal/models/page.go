package models

import "strings"

const (
	MaxPageLimit = 100
	// MaxPage keeps (Page-1)*Limit far from overflow.
	MaxPage = 1_000_000
)

// Page is a 1-indexed pagination window plus sort order.
type Page struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalize clamps the window to page in [1, MaxPage] and limit in
// [1, MaxPageLimit].
// A zero limit falls back to defaultLimit.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if strings.EqualFold(p.SortOrder, "asc") {
		p.SortOrder = "asc"
	} else {
		p.SortOrder = "desc"
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(p Page, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
