package domain

import "time"

// Product is a published instance of a ProductType owned by a citizen (BSN)
// and/or a company (KVK).
type Product struct {
	ID            string    `json:"id"`
	ProductTypeID string    `json:"productTypeId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	BSN           string    `json:"bsn,omitempty"`
	KVK           string    `json:"kvk,omitempty"`
	Published     bool      `json:"published"`
	Data          []Data    `json:"data"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Data is the stored answer of one field for one product.
type Data struct {
	ID        string `json:"id"`
	FieldID   string `json:"fieldId"`
	ProductID string `json:"-"`
	Value     string `json:"value"`
	// Formatted is the typed form of Value, filled on detail reads.
	Formatted any `json:"formatted,omitempty" db:"-"`
}
