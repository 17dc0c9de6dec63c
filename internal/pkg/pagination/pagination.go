// Package pagination translates the from/size offset pair used by list
// endpoints into a page-aligned window.
package pagination

import (
	"net/http"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

const DefaultSize = 10

var (
	ErrInvalidFrom = apperror.New(http.StatusBadRequest, "from must be greater than or equal to 0")
	ErrInvalidSize = apperror.New(http.StatusBadRequest, "size must be greater than 0")
)

// Page is an offset/size request. From is an item offset, not a page number.
type Page struct {
	From int
	Size int
}

// New validates from >= 0 and size >= 1.
func New(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, ErrInvalidFrom
	}
	if size < 1 {
		return Page{}, ErrInvalidSize
	}
	return Page{From: from, Size: size}, nil
}

// Default is the first page with the default size.
func Default() Page {
	return Page{From: 0, Size: DefaultSize}
}

// Index is the zero-based page index, from / size (integer division).
func (p Page) Index() int {
	if p.Size < 1 {
		return 0
	}
	return p.From / p.Size
}

// Offset is the row offset of the page the item offset falls into.
// A From that is not a multiple of Size is rounded down to the page start.
func (p Page) Offset() uint64 {
	return uint64(p.Index() * p.Size)
}

// Limit is the page size as used by squirrel's Limit.
func (p Page) Limit() uint64 {
	if p.Size < 1 {
		return DefaultSize
	}
	return uint64(p.Size)
}

// Slice applies the page to an in-memory slice already in the final order.
func Slice[T any](items []T, p Page) []T {
	start := int(p.Offset())
	if start >= len(items) {
		return []T{}
	}
	end := start + int(p.Limit())
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
