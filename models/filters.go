package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	DefaultPage  = 1
	DefaultLimit = 10

	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"

	SortOrderAsc  = "ASC"
	SortOrderDesc = "DESC"
)

// TaskListFilters holds the optional list parameters. Zero values mean the
// filter is not applied. The struct lives in models so handler, service and
// repository layers share one definition.
type TaskListFilters struct {
	Search     string
	Statuses   []TaskStatus
	AssigneeID string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// Normalize applies the clamping policy: non-positive or unparseable page
// and limit fall back to the defaults, empty sort fields fall back to
// createdAt descending. The upstream code computed (page-1)*limit without
// guarding, so negative offsets were possible; clamping to the defaults is
// the documented fix.
func (f *TaskListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortOrderDesc
	}
}

// Validate rejects values that are present but outside the recognized
// enumerations. Call after Normalize.
func (f TaskListFilters) Validate() error {
	v := NewValidationError()
	for _, status := range f.Statuses {
		if _, err := ParseTaskStatus(string(status)); err != nil {
			v.Add("status", err.Error())
			break
		}
	}
	if f.AssigneeID != "" {
		if _, err := primitive.ObjectIDFromHex(f.AssigneeID); err != nil {
			v.Add("assigneeId", "invalid user ID format")
		}
	}
	if f.SortBy != SortByTitle && f.SortBy != SortByCreatedAt {
		v.Add("sortBy", "must be one of: title, createdAt")
	}
	if f.SortOrder != SortOrderAsc && f.SortOrder != SortOrderDesc {
		v.Add("sortOrder", "must be one of: ASC, DESC")
	}
	return v.Err()
}

func (f TaskListFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
