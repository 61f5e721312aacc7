package pagination

import "gorm.io/gorm"

// Params is the page/perPage pair accepted by every list endpoint.
type Params struct {
	Page    int `form:"page"`
	PerPage int `form:"perPage"`
}

type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Total   int64 `json:"total"`
}

// Page is the list envelope returned to clients.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// Normalize clamps the params; Page starts at 1.
func (p Params) Normalize(defaultPerPage, maxPerPage int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if maxPerPage > 0 && p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Scope applies LIMIT/OFFSET for already-normalized params.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}

func (p Params) Meta(total int64) Meta {
	return Meta{Page: p.Page, PerPage: p.PerPage, Total: total}
}

// NewPage never returns a nil Data slice so clients always see [].
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Meta: p.Meta(total)}
}
