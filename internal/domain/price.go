package domain

import "time"

// Price is a set of price options valid from StartDate onwards.
type Price struct {
	ID            string        `json:"id"`
	ProductTypeID string        `json:"-"`
	StartDate     time.Time     `json:"startDate"`
	Options       []PriceOption `json:"options"`
}

type PriceOption struct {
	ID          string `json:"id"`
	PriceID     string `json:"-"`
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
}
