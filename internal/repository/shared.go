package repository

// Pagination holds pagination parameters for listing entities. A zero PageSize means
// "everything on one page".
type Pagination struct {
	PageNo   int32
	PageSize int32
}

// Window returns the [start, end) slice bounds of the requested page within total items.
func (p *Pagination) Window(total int) (int, int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	pageNo := p.PageNo
	if pageNo <= 0 {
		pageNo = 1
	}
	start := int((pageNo - 1) * p.PageSize)
	if start >= total {
		return total, total
	}
	end := start + int(p.PageSize)
	if end > total {
		end = total
	}
	return start, end
}

// FilterOrder carries the raw CEL filter and order_by inputs of a list call.
type FilterOrder struct {
	Filter  string
	OrderBy string
}

func (fo *FilterOrder) GetFilter() string { return fo.Filter }

func (fo *FilterOrder) GetOrderBy() string { return fo.OrderBy }
