package data

import "time"

// Project defines a showcase project. Projects are imported from an external
// source; the comment and search paths only consume a few display fields.
type Project struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Status              string    `json:"status"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailed_description,omitempty"`
	Tracks              []string  `json:"tracks"`
	Booth               string    `json:"booth"`
	CreatedAt           time.Time `json:"-"`
	UpdatedAt           time.Time `json:"-"`
}
