package domain

import "time"

// ProductType describes a kind of product: its content, the data fields a
// product of this type carries and where it is listed.
type ProductType struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Summary               string    `json:"summary"`
	Content               string    `json:"content"`
	FormLink              string    `json:"formLink"`
	Keywords              []string  `json:"keywords"`
	Published             bool      `json:"published"`
	UniformProductNameID  string    `json:"uniformProductNameId"`
	CategoryIDs           []string  `json:"categoryIds"`
	TagIDs                []string  `json:"tagIds"`
	ConditionIDs          []string  `json:"conditionIds"`
	RelatedProductTypeIDs []string  `json:"relatedProductTypeIds"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Link is an external url shown with a product type.
type Link struct {
	ID            string `json:"id"`
	ProductTypeID string `json:"-"`
	Name          string `json:"name"`
	URL           string `json:"url"`
}

// UniformProductName is an entry of the national list of product names.
type UniformProductName struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URI       string `json:"uri"`
	IsDeleted bool   `json:"isDeleted"`
}
