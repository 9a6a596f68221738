package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"open-producten/internal/domain"
)

type addressRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
}

func (r addressRequest) address() domain.Address {
	return domain.Address(r)
}

type organisationRequest struct {
	addressRequest
	Slug            string `json:"slug"`
	TypeID          string `json:"typeId"`
	NeighbourhoodID string `json:"neighbourhoodId"`
}

type contactRequest struct {
	OrganisationID string `json:"organisationId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Role           string `json:"role"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type locationHandler struct {
	svc LocationService
}

func registerLocationRoutes(r *gin.RouterGroup, svc LocationService) {
	h := locationHandler{svc: svc}
	r.GET("/locations", h.listLocations)
	r.POST("/locations", h.saveLocation)
	r.GET("/locations/:id", h.getLocation)
	r.PUT("/locations/:id", h.saveLocation)
	r.DELETE("/locations/:id", h.deleteBy(svc.DeleteLocation))

	r.GET("/organisations", h.listOrganisations)
	r.POST("/organisations", h.saveOrganisation)
	r.GET("/organisations/:id", h.getOrganisation)
	r.PUT("/organisations/:id", h.saveOrganisation)
	r.DELETE("/organisations/:id", h.deleteBy(svc.DeleteOrganisation))

	r.GET("/organisationtypes", h.listOrganisationTypes)
	r.POST("/organisationtypes", h.saveOrganisationType)
	r.PUT("/organisationtypes/:id", h.saveOrganisationType)
	r.DELETE("/organisationtypes/:id", h.deleteBy(svc.DeleteOrganisationType))

	r.GET("/neighbourhoods", h.listNeighbourhoods)
	r.POST("/neighbourhoods", h.saveNeighbourhood)
	r.PUT("/neighbourhoods/:id", h.saveNeighbourhood)
	r.DELETE("/neighbourhoods/:id", h.deleteBy(svc.DeleteNeighbourhood))

	r.GET("/contacts", h.listContacts)
	r.POST("/contacts", h.saveContact)
	r.GET("/contacts/:id", h.getContact)
	r.PUT("/contacts/:id", h.saveContact)
	r.DELETE("/contacts/:id", h.deleteBy(svc.DeleteContact))
}

// saveStatus is 201 for POST and 200 for PUT on the same handler.
func saveStatus(c *gin.Context) int {
	if c.Request.Method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h locationHandler) deleteBy(del func(ctx context.Context, id string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondNoContent(c, del(c.Request.Context(), c.Param("id")))
	}
}

func (h locationHandler) listLocations(c *gin.Context) {
	out, err := h.svc.ListLocations(c.Request.Context())
	respondList(c, out, err)
}

func (h locationHandler) getLocation(c *gin.Context) {
	out, err := h.svc.GetLocation(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, out, err)
}

func (h locationHandler) saveLocation(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.SaveLocation(c.Request.Context(), domain.Location{ID: c.Param("id"), Address: req.address()})
	respond(c, saveStatus(c), out, err)
}

func (h locationHandler) listOrganisations(c *gin.Context) {
	out, err := h.svc.ListOrganisations(c.Request.Context())
	respondList(c, out, err)
}

func (h locationHandler) getOrganisation(c *gin.Context) {
	out, err := h.svc.GetOrganisation(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, out, err)
}

func (h locationHandler) saveOrganisation(c *gin.Context) {
	var req organisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.SaveOrganisation(c.Request.Context(), domain.Organisation{
		ID:              c.Param("id"),
		Address:         req.address(),
		Slug:            req.Slug,
		TypeID:          req.TypeID,
		NeighbourhoodID: req.NeighbourhoodID,
	})
	respond(c, saveStatus(c), out, err)
}

func (h locationHandler) listOrganisationTypes(c *gin.Context) {
	out, err := h.svc.ListOrganisationTypes(c.Request.Context())
	respondList(c, out, err)
}

func (h locationHandler) saveOrganisationType(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.SaveOrganisationType(c.Request.Context(), domain.OrganisationType{ID: c.Param("id"), Name: req.Name})
	respond(c, saveStatus(c), out, err)
}

func (h locationHandler) listNeighbourhoods(c *gin.Context) {
	out, err := h.svc.ListNeighbourhoods(c.Request.Context())
	respondList(c, out, err)
}

func (h locationHandler) saveNeighbourhood(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.SaveNeighbourhood(c.Request.Context(), domain.Neighbourhood{ID: c.Param("id"), Name: req.Name})
	respond(c, saveStatus(c), out, err)
}

func (h locationHandler) listContacts(c *gin.Context) {
	out, err := h.svc.ListContacts(c.Request.Context())
	respondList(c, out, err)
}

func (h locationHandler) getContact(c *gin.Context) {
	out, err := h.svc.GetContact(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, out, err)
}

func (h locationHandler) saveContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.SaveContact(c.Request.Context(), domain.Contact{
		ID:             c.Param("id"),
		OrganisationID: req.OrganisationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Role:           req.Role,
	})
	respond(c, saveStatus(c), out, err)
}
