// Package dto provides request/response shapes for the HTTP API.
// Responses reuse the domain models' JSON tags; requests are explicit
// so clients cannot set computed or system-managed fields.
package dto

// ListQuery contains common listing parameters.
type ListQuery struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// IDResponse is returned on creation.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
