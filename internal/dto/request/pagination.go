package request

import "ride-booking/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=0"`
	PerPage int `json:"per_page" validate:"min=0,max=100"`
}

func (p PaginatedRequest) PageNumber() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.PageNumber(), p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPerPage(p.PerPage)
}
