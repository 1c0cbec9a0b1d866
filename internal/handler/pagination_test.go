package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationMeta(t *testing.T) {
	req := require.New(t)

	meta := NewPaginationMeta(25, 2, 10)
	req.Equal(int64(25), meta.TotalItems)
	req.Equal(3, meta.TotalPages)
	req.Equal(2, meta.CurrentPage)
	req.Equal(10, meta.PageSize)
	req.True(meta.HasNext)
	req.True(meta.HasPrevious)
}

func TestNewPaginationMeta_FirstAndLastPage(t *testing.T) {
	req := require.New(t)

	first := NewPaginationMeta(25, 1, 10)
	req.True(first.HasNext)
	req.False(first.HasPrevious)

	last := NewPaginationMeta(25, 3, 10)
	req.False(last.HasNext)
	req.True(last.HasPrevious)
}

func TestNewPaginationMeta_Empty(t *testing.T) {
	req := require.New(t)

	meta := NewPaginationMeta(0, 1, 10)
	req.Equal(0, meta.TotalPages)
	req.False(meta.HasNext)
	req.False(meta.HasPrevious)
}
