package domain

// Question is a frequently asked question attached to either a category or a
// product type, never both.
type Question struct {
	ID            string  `json:"id"`
	CategoryID    *string `json:"categoryId,omitempty"`
	ProductTypeID *string `json:"productTypeId,omitempty"`
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
}
