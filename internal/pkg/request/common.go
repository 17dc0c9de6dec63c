package request

import (
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

// ByIDRequest is a common struct for endpoints that require a numeric ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// PageParams binds the from/size query pair used by list endpoints.
type PageParams struct {
	From *int `form:"from"`
	Size *int `form:"size"`
}

// Validate applies defaults and checks bounds: from >= 0, size >= 1.
func (p *PageParams) Validate() (pagination.Page, error) {
	from, size := 0, pagination.DefaultSize
	if p.From != nil {
		from = *p.From
	}
	if p.Size != nil {
		size = *p.Size
	}
	return pagination.New(from, size)
}
