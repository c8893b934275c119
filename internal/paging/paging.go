package paging

// PageSize is the fixed page length used by the candidate panel lists
const PageSize = 10

// MaxPage bounds page numbers accepted from clients
const MaxPage = 1_000_000

// Page is one slice of a list plus the totals needed to render a pager
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// TotalPages returns ceil(n/size), 0 for an empty list
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns the 1-indexed page of items, [(page-1)*size, page*size).
// Pages below 1 are treated as 1; pages past the end are empty.
func Slice[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}

	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), size),
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end]
	return p
}
