package dto

import "github.com/csy100/touch-api/data"

// QsListProjects defines the query string parameters for ListProjects service.
type QsListProjects struct {
	Filters data.Filters
}

// QsSearchProjects defines the query string parameters for SearchProjects service.
type QsSearchProjects struct {
	Keyword string
	Filters data.Filters
}
