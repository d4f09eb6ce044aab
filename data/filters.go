package data

import (
	"github.com/csy100/touch-api/internal/validator"
)

// Filters holds pagination values read from a request's query string. Every
// listing carries a fixed sort order, so there is no client sort parameter.
type Filters struct {
	Page     int
	PageSize int
}

// Limit returns the page size for a LIMIT clause.
func (f Filters) Limit() int {
	return f.PageSize
}

// Offset returns the number of rows to skip for an OFFSET clause.
func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
}

// Metadata holds pagination metadata included in list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records"`
}

// CalculateMetadata calculates the appropriate pagination metadata values
// given the total number of records, current page, and page size values.
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		TotalRecords: totalRecords,
	}
}
