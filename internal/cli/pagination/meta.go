package pagination

// Meta describes a page of results.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// NewMeta computes page metadata for total items. The current page is capped
// the same way Apply caps it.
func NewMeta(p Params, total int) Meta {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	current := min(max(p.Page, 1), max(pages, 1))

	return Meta{
		CurrentPage: current,
		PageSize:    p.PageSize,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: current > 1,
		HasNext:     current < pages,
	}
}
