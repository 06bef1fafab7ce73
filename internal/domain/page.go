package domain

// Pagination carries the sanitized page/size query values.
type Pagination struct {
	Page int
	Size int
}

// Offset is the row offset matching Page and Size.
func (p Pagination) Offset() int {
	return p.Page * p.Size
}

// Page is the paged listing envelope shared by hoax and user listings.
type Page[T any] struct {
	Content    []T `json:"content"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"totalPages"`
}

// TotalPages rounds the match count up to full pages.
func TotalPages(count, size int) int {
	if size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
