package shared

// ListFilters represents standard list query filters.
type ListFilters struct {
	Page   int
	Limit  int
	Search string

	// Entity specific filters
	ProductID *int64
	UnitID    *int64
}

// Offset computes the row offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
