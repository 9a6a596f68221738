package domain

import "strings"

// Address is the postal part shared by locations and organisations.
type Address struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
}

// Line renders the address as "street number, postcode city" with the
// postcode spaces removed.
func (a Address) Line() string {
	return a.Street + " " + a.HouseNumber + ", " + strings.ReplaceAll(a.Postcode, " ", "") + " " + a.City
}

// Location is a physical place where products can be requested.
type Location struct {
	ID string `json:"id"`
	Address
}

type OrganisationType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Neighbourhood struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Organisation is an addressable body providing products.
type Organisation struct {
	ID string `json:"id"`
	Address
	Slug            string `json:"slug"`
	TypeID          string `json:"typeId"`
	NeighbourhoodID string `json:"neighbourhoodId,omitempty"`
}

// Contact is a person to reach about a product, optionally working for an
// organisation.
type Contact struct {
	ID             string `json:"id"`
	OrganisationID string `json:"organisationId,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Role           string `json:"role"`
}

// DisplayName prefixes the organisation name when there is one.
func (c Contact) DisplayName(org *Organisation) string {
	name := c.FirstName + " " + c.LastName
	if org != nil {
		return org.Name + ": " + name
	}
	return name
}

// ReachableAt returns the contact's own e-mail address and phone number,
// falling back to the organisation's for empty ones.
func (c Contact) ReachableAt(org *Organisation) (email, phone string) {
	email, phone = c.Email, c.PhoneNumber
	if org != nil {
		if email == "" {
			email = org.Email
		}
		if phone == "" {
			phone = org.PhoneNumber
		}
	}
	return email, phone
}
