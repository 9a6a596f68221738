package domain

// Condition is a requirement a citizen has to meet to request a product type.
type Condition struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Question     string `json:"question"`
	PositiveText string `json:"positiveText"`
	NegativeText string `json:"negativeText"`
	Rule         string `json:"rule"`
}
