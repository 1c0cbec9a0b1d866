package handler

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginationMeta computes the pagination metadata for one page.
func NewPaginationMeta(totalItems int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		limit = 1
	}
	if page <= 0 {
		page = 1
	}
	return PaginationMeta{
		TotalItems:  totalItems,
		TotalPages:  (int(totalItems) + limit - 1) / limit,
		CurrentPage: page,
		PageSize:    limit,
		HasNext:     int64(page)*int64(limit) < totalItems,
		HasPrevious: page > 1,
	}
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, page, limit int) PaginatedResponse[T] {
	return PaginatedResponse[T]{
		Data: data,
		Meta: NewPaginationMeta(totalItems, page, limit),
	}
}
