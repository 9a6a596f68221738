package domain

import "time"

// Category is a node of the category tree. Its position is encoded in Path;
// the parent is derived from the path and never stored.
type Category struct {
	ID          string `json:"id"`
	Path        string `json:"-"`
	Depth       int    `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
	// ProductTypeIDs is filled on detail reads only.
	ProductTypeIDs []string  `json:"productTypeIds,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CategoryAttrs holds the editable attributes of a category.
type CategoryAttrs struct {
	Name        string
	Description string
	Published   bool
}
